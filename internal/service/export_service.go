package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-liff-api/internal/models"
	"github.com/noah-isme/schedule-liff-api/internal/schedule"
	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
	"github.com/noah-isme/schedule-liff-api/pkg/export"
	"github.com/noah-isme/schedule-liff-api/pkg/storage"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
	ExportFormatICS = "ics"
)

var exportContentTypes = map[string]string{
	ExportFormatCSV: "text/csv; charset=utf-8",
	ExportFormatPDF: "application/pdf",
	ExportFormatICS: "text/calendar; charset=utf-8",
}

var exportHeaders = []string{"day", "start_time", "end_time", "subject_code", "subject_name", "section", "type", "room", "instructor"}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type icsRenderer interface {
	Render(name string, events []export.RecurringEvent) ([]byte, error)
}

type fileStore interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
	Sweep(ttl time.Duration) ([]string, error)
}

type linkSigner interface {
	Sign(owner, relPath string) (string, time.Time, error)
	Verify(token string) (owner, relPath string, expiresAt time.Time, err error)
	TTL() time.Duration
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	Location  *time.Location
	Clock     calendar.Clock
}

// ExportFile is a rendered timetable ready to be sent.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// SharedExport describes a signed download link.
type SharedExport struct {
	Format    string    `json:"format"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService renders a user's term timetable as CSV, PDF or an iCalendar feed.
type ExportService struct {
	terms    termResolver
	subjects subjectLister
	holidays holidayLister
	files    fileStore
	signer   linkSigner
	csv      csvRenderer
	pdf      pdfRenderer
	ics      icsRenderer
	cfg      ExportConfig
	logger   *zap.Logger
}

// NewExportService constructs an ExportService. files and signer may be nil,
// which disables shared links.
func NewExportService(terms termResolver, subjects subjectLister, holidays holidayLister, files fileStore, signer linkSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, ics icsRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = calendar.FixedZone
	}
	if cfg.Clock == nil {
		cfg.Clock = calendar.SystemClock{}
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	if ics == nil {
		ics = export.NewICSExporter("-//schedule-liff//timetable//TH")
	}
	return &ExportService{
		terms:    terms,
		subjects: subjects,
		holidays: holidays,
		files:    files,
		signer:   signer,
		csv:      csv,
		pdf:      pdf,
		ics:      ics,
		cfg:      cfg,
		logger:   logger,
	}
}

// Export renders the timetable of the term active today.
func (s *ExportService) Export(ctx context.Context, userID, format string) (*ExportFile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrMissingField, "missing user_id")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if _, ok := exportContentTypes[format]; !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}

	today := calendar.Today(s.cfg.Clock.Now(), s.cfg.Location)
	term, err := s.terms.Resolve(ctx, today)
	if err != nil {
		return nil, err
	}
	semester := term.Semester()

	rows, err := s.subjects.ListByUserAndSemester(ctx, userID, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "DB query failed")
	}

	title := "ตารางเรียน เทอม " + semester
	var body []byte
	switch format {
	case ExportFormatCSV:
		body, err = s.csv.Render(subjectDataset(rows))
	case ExportFormatPDF:
		body, err = s.pdf.Render(subjectDataset(rows), title)
	case ExportFormatICS:
		var events []export.RecurringEvent
		events, err = s.recurringEvents(ctx, userID, term, rows)
		if err == nil {
			body, err = s.ics.Render(title, events)
		}
	}
	if err != nil {
		s.logger.Error("render export failed", zap.String("user_id", userID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    exportFilename(semester, format),
		ContentType: exportContentTypes[format],
		Body:        body,
	}, nil
}

// Share renders an export, stores it and returns a signed link to it.
func (s *ExportService) Share(ctx context.Context, userID, format string) (*SharedExport, error) {
	if s.files == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrStoreUnavailable, "export links are disabled")
	}
	file, err := s.Export(ctx, userID, format)
	if err != nil {
		return nil, err
	}

	owner := strings.TrimSpace(userID)
	relPath, err := s.files.Save(path.Join(storageSafe(owner), file.Filename), file.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Sign(owner, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}

	return &SharedExport{
		Format:    strings.ToLower(strings.TrimSpace(format)),
		Token:     token,
		URL:       s.cfg.APIPrefix + "/schedule/export/shared/" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// OpenShared returns the stored file a link token points at.
func (s *ExportService) OpenShared(token string) (*ExportFile, error) {
	if s.files == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "not found")
	}
	_, relPath, _, err := s.signer.Verify(token)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidLink) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "link expired or invalid")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify link")
	}
	body, err := s.files.Read(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "not found")
	}

	name := path.Base(relPath)
	format := strings.TrimPrefix(path.Ext(name), ".")
	contentType, ok := exportContentTypes[format]
	if !ok {
		contentType = "application/octet-stream"
	}
	return &ExportFile{Filename: name, ContentType: contentType, Body: body}, nil
}

// Sweep deletes stored exports whose links have expired.
func (s *ExportService) Sweep(context.Context) {
	if s.files == nil || s.signer == nil {
		return
	}
	removed, err := s.files.Sweep(s.signer.TTL())
	if err != nil {
		s.logger.Warn("export sweep failed", zap.Error(err))
		return
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
}

func subjectDataset(rows []models.Subject) export.Dataset {
	data := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"day":          row.Day,
			"start_time":   row.StartTime,
			"end_time":     row.EndTime,
			"subject_code": row.SubjectCode,
			"subject_name": row.SubjectName,
			"section":      row.Section,
			"type":         row.Type,
			"room":         row.Room,
			"instructor":   row.Instructor,
		})
	}
	return data
}

// recurringEvents turns each row into a weekly series across the term. Dates
// hit by a full-day holiday or a cancel aimed at the row are skipped. A failed
// overlay read exports the series without skips.
func (s *ExportService) recurringEvents(ctx context.Context, userID string, term *models.Term, rows []models.Subject) ([]export.RecurringEvent, error) {
	loc := s.cfg.Location
	from, _ := calendar.DayBounds(term.StartDate, loc)
	_, to := calendar.DayBounds(term.EndDate, loc)
	overlays, err := s.holidays.ListOverlapping(ctx, userID, from, to)
	if err != nil {
		s.logger.Warn("holiday overlay unavailable", zap.String("user_id", userID), zap.Error(err))
		overlays = nil
	}

	until, err := time.ParseInLocation("2006-01-02 15:04:05", term.EndDate+" 23:59:59", loc)
	if err != nil {
		return nil, fmt.Errorf("term end %q: %w", term.EndDate, err)
	}

	events := make([]export.RecurringEvent, 0, len(rows))
	for _, row := range rows {
		first, ok := firstOccurrence(term, calendar.CanonicalWeekday(row.Day))
		if !ok {
			continue
		}
		start, errStart := time.ParseInLocation("2006-01-02 15:04", first+" "+strings.TrimSpace(row.StartTime), loc)
		end, errEnd := time.ParseInLocation("2006-01-02 15:04", first+" "+strings.TrimSpace(row.EndTime), loc)
		if errStart != nil || errEnd != nil || !end.After(start) {
			s.logger.Warn("skipping row with bad times", zap.Int64("id", row.ID), zap.String("start", row.StartTime), zap.String("end", row.EndTime))
			continue
		}

		ev := export.RecurringEvent{
			UID:         fmt.Sprintf("subject-%d-%s@schedule-liff", row.ID, strings.ReplaceAll(term.Semester(), "/", "-")),
			Summary:     strings.TrimSpace(row.SubjectCode + " " + row.SubjectName),
			Location:    row.Room,
			Description: eventDescription(row),
			Start:       start,
			End:         end,
			Until:       until,
		}
		occurrences, err := export.WeeklyOccurrences(ev)
		if err != nil {
			return nil, err
		}
		for _, occ := range occurrences {
			if skipOccurrence(row, occ.In(loc).Format(calendar.DateLayout), overlays, loc) {
				ev.Skip = append(ev.Skip, occ)
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

func firstOccurrence(term *models.Term, weekday string) (string, bool) {
	if calendar.MondayIndex(weekday) < 0 {
		return "", false
	}
	for i := 0; i < 7; i++ {
		d := calendar.AddDays(term.StartDate, i)
		if calendar.WeekdayName(d) == weekday {
			return d, d <= term.EndDate
		}
	}
	return "", false
}

func skipOccurrence(row models.Subject, date string, overlays []models.Holiday, loc *time.Location) bool {
	dayStart, err := time.ParseInLocation(calendar.DateLayout, date, loc)
	if err != nil {
		return false
	}
	dayEnd := dayStart.Add(24*time.Hour - time.Second)
	for _, rec := range overlays {
		if rec.StartAt.After(dayEnd) || rec.EndAt.Before(dayStart) {
			continue
		}
		if rec.IsFullDay() {
			return true
		}
		if rec.IsCancel() && schedule.MatchCancel(row, rec) {
			return true
		}
	}
	return false
}

func eventDescription(row models.Subject) string {
	parts := []string{"sec " + row.Section, row.Type}
	if row.Instructor != "" {
		parts = append(parts, row.Instructor)
	}
	return strings.Join(parts, " • ")
}

func exportFilename(semester, format string) string {
	return "timetable-" + strings.ReplaceAll(semester, "/", "-") + "." + format
}

// storageSafe keeps LINE user ids usable as a directory name.
func storageSafe(owner string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, owner)
}
