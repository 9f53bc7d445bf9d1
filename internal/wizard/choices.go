package wizard

import "fmt"

// Choice is one selectable option, rendered by the transport layer however
// it likes (inline keyboard button, CLI menu entry, ...).
type Choice struct {
	Key   string
	Label string
}

// PresetChoices enumerates the quick preset menu in display order.
func PresetChoices() []Choice {
	return []Choice{
		{Key: string(Preset30Min), Label: "In 30 minutes"},
		{Key: string(Preset1Hour), Label: "In 1 hour"},
		{Key: string(Preset2Hours), Label: "In 2 hours"},
		{Key: string(Preset6Hours), Label: "In 6 hours"},
		{Key: string(PresetTomorrow9), Label: "Tomorrow 09:00"},
		{Key: string(PresetTomorrow18), Label: "Tomorrow 18:00"},
		{Key: string(PresetNone), Label: "No reminder"},
	}
}

// DayChoices enumerates the date anchors of the custom flow.
func DayChoices() []Choice {
	return []Choice{
		{Key: string(DayToday), Label: "Today"},
		{Key: string(DayTomorrow), Label: "Tomorrow"},
		{Key: string(DayAfterTomorrow), Label: "Day after tomorrow"},
		{Key: string(DayNextWeek), Label: "Next week"},
	}
}

// HourRows lays the 24 hours out as 4 rows of 6, the shape compact chat
// keyboards want.
func HourRows() [][]Choice {
	rows := make([][]Choice, 0, 4)
	for start := 0; start < 24; start += 6 {
		row := make([]Choice, 0, 6)
		for h := start; h < start+6; h++ {
			row = append(row, Choice{Key: fmt.Sprintf("%d", h), Label: fmt.Sprintf("%02d", h)})
		}
		rows = append(rows, row)
	}
	return rows
}

// BucketChoices enumerates the six 10-minute buckets.
func BucketChoices() []Choice {
	choices := make([]Choice, 0, 6)
	for b := range 6 {
		label := fmt.Sprintf("%02d-%02d", b*10, b*10+9)
		choices = append(choices, Choice{Key: fmt.Sprintf("%d", b), Label: label})
	}
	return choices
}

// MinuteRows lays a bucket's ten minutes out as 2 rows of 5. Buckets outside
// 0-5 yield nil.
func MinuteRows(bucket int) [][]Choice {
	if bucket < 0 || bucket > 5 {
		return nil
	}
	lo := bucket * 10
	rows := make([][]Choice, 0, 2)
	for start := lo; start < lo+10; start += 5 {
		row := make([]Choice, 0, 5)
		for m := start; m < start+5; m++ {
			row = append(row, Choice{Key: fmt.Sprintf("%d", m), Label: fmt.Sprintf("%02d", m)})
		}
		rows = append(rows, row)
	}
	return rows
}
