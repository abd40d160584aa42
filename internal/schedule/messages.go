package schedule

import (
	"fmt"
	"strings"

	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
)

const (
	titleAll      = "ตารางเรียนทั้งหมด"
	titleWeek     = "ตารางเรียนสัปดาห์นี้"
	titleNext     = "คาบต่อไป"
	titleCurrent  = "ตอนนี้เรียนอะไร"
	titleFallback = "ตารางเรียน"

	msgNoClass        = "วันนั้นไม่มีเรียนค่ะ 😊"
	msgStudyingNow    = "ตอนนี้กำลังเรียนอยู่นะคะ ✨"
	msgNoMoreToday    = "ตอนนี้ไม่มีเรียนแล้วค่ะ 😊"
	msgNextNotFound   = "ยังไม่พบคาบถัดไปในช่วงนี้ค่ะ 😊"
	msgOverlayWarning = "holiday overlay unavailable"
)

// relativeLabel names today, tomorrow and the day after in Thai.
func relativeLabel(today, date string) string {
	switch date {
	case "":
		return ""
	case today:
		return "วันนี้"
	case calendar.AddDays(today, 1):
		return "พรุ่งนี้"
	case calendar.AddDays(today, 2):
		return "มะรืน"
	}
	return ""
}

func holidayMessage(today, date, weekday, reason string) string {
	suffix := ""
	if r := strings.TrimSpace(reason); r != "" {
		suffix = fmt.Sprintf(" (%s)", r)
	}
	if rel := relativeLabel(today, date); rel != "" {
		return rel + "เป็นวันหยุดค่ะ 😊" + suffix
	}
	return calendar.FormatDisplayTitle(weekday, date) + " เป็นวันหยุดค่ะ 😊" + suffix
}

func endTimeMessage(end string) string {
	return fmt.Sprintf("เลิกประมาณ %s นะคะ ✨", end)
}

func nextStartsMessage(start string) string {
	return fmt.Sprintf("ตอนนี้ไม่มีคาบเรียนค่ะ 😊 คาบถัดไปเริ่ม %s นะคะ", start)
}

func nextDayMessage(weekday, date string) string {
	return fmt.Sprintf("คาบต่อไปคือ %s นะคะ ✨", calendar.FormatDisplayTitle(weekday, date))
}

func subtitle(semester, today string) string {
	return fmt.Sprintf("เทอม %s • วันนี้ %s", semester, today)
}

// titleFor builds the header line of an intent's answer.
func titleFor(intent Intent, weekday, date string, template bool) string {
	day := calendar.FormatDisplayTitle(weekday, date)
	switch intent {
	case IntentAll:
		return titleAll
	case IntentWeek:
		return titleWeek
	case IntentDay:
		if template {
			return fmt.Sprintf("ตารางเรียนวัน%s (ทั้งเทอม)", weekday)
		}
		return "ตารางเรียน" + day
	case IntentDayEndTime:
		return "เลิกกี่โมง • " + day
	case IntentFirst:
		return "คาบแรก • " + day
	case IntentLast:
		return "คาบสุดท้าย • " + day
	case IntentNext:
		return titleNext
	case IntentCurrent:
		return titleCurrent
	}
	return titleFallback
}
