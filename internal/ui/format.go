// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for activities, laps, and points

package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/harper/trackedit/internal/activities"
	"github.com/harper/trackedit/internal/models"
)

var faint = color.New(color.Faint)

// FormatActivity formats an activity as a single list line.
func FormatActivity(a *models.Activity) string {
	if a == nil {
		return faint.Sprint("(invalid activity)")
	}
	s := activities.Summarize(a)

	name := a.Name
	if name == "" {
		name = "(unnamed)"
	}
	var sb strings.Builder
	sb.WriteString(color.GreenString(name))
	if a.Sport != "" {
		sb.WriteString(" " + faint.Sprintf("[%s]", a.Sport))
	}
	fmt.Fprintf(&sb, " - %s, %s, %s",
		FormatDistance(s.Distance),
		plural(s.Laps, "lap"),
		FormatDuration(s.Duration))
	sb.WriteString(" " + faint.Sprintf("(%s, %s)", ShortID(a), FormatRelativeTime(a.Date)))
	return sb.String()
}

// FormatSummary formats the activity roll-up for the show command.
func FormatSummary(a *models.Activity) string {
	s := activities.Summarize(a)
	lines := []string{
		fmt.Sprintf("%s %s", color.New(color.Bold).Sprint(a.Name), faint.Sprint(a.ID.String())),
		fmt.Sprintf("  recorded   %s (%s)", a.Date.Format("Jan 2 2006, 15:04"), FormatRelativeTime(a.Date)),
		fmt.Sprintf("  distance   %s", FormatDistance(s.Distance)),
		fmt.Sprintf("  duration   %s", FormatDuration(s.Duration)),
		fmt.Sprintf("  laps       %d, %s", s.Laps, plural(s.Points, "point")),
	}
	if a.Sport != "" {
		lines = append(lines, fmt.Sprintf("  sport      %s", a.Sport))
	}
	if a.Device != "" {
		lines = append(lines, fmt.Sprintf("  device     %s", a.Device))
	}
	if s.Calories > 0 {
		lines = append(lines, fmt.Sprintf("  calories   %s", humanize.Comma(int64(s.Calories))))
	}
	if s.MaximumHeartRate != nil {
		lines = append(lines, fmt.Sprintf("  max HR     %d bpm", *s.MaximumHeartRate))
	}
	if s.AverageSpeed != nil {
		lines = append(lines, fmt.Sprintf("  avg speed  %s", FormatSpeed(*s.AverageSpeed)))
	}
	return strings.Join(lines, "\n")
}

// FormatLap formats a lap as one indented line.
func FormatLap(l *models.Lap) string {
	var sb strings.Builder
	if l.Color != "" {
		sb.WriteString(color.MagentaString("■ "))
	}
	fmt.Fprintf(&sb, "  %s  %s", color.CyanString("Lap %d", l.Index), plural(len(l.Tracks), "point"))
	if l.Distance != nil {
		sb.WriteString("  " + FormatDistance(*l.Distance))
	}
	if l.TotalTime != nil {
		sb.WriteString("  " + FormatDuration(time.Duration(*l.TotalTime*float64(time.Second))))
	}
	if l.AverageHeartRate != nil && l.MaximumHeartRate != nil {
		fmt.Fprintf(&sb, "  HR %d/%d", *l.AverageHeartRate, *l.MaximumHeartRate)
	}
	if l.AverageSpeed != nil {
		sb.WriteString("  " + FormatSpeed(*l.AverageSpeed))
	}
	if l.Calories != nil {
		fmt.Fprintf(&sb, "  %d kcal", *l.Calories)
	}
	if l.Intensity != "" {
		sb.WriteString("  " + faint.Sprint(l.Intensity))
	}
	return sb.String()
}

// FormatPoint formats a track point for detailed listings.
func FormatPoint(t *models.TrackPoint) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "    #%-5d", t.Index)
	if t.Position != nil {
		sb.WriteString(" " + color.CyanString("(%s, %s)", coord(t.Position.Latitude), coord(t.Position.Longitude)))
	} else {
		sb.WriteString(" " + faint.Sprint("(no position)"))
	}
	if !t.Time.IsZero() {
		sb.WriteString(" " + t.Time.Format("15:04:05"))
		sb.WriteString(faint.Sprintf(" t=%d", t.TimeMillis()))
	}
	if t.Distance != nil {
		sb.WriteString(" " + FormatDistance(*t.Distance))
	}
	if t.Altitude != nil {
		fmt.Fprintf(&sb, " alt %.0fm", *t.Altitude)
	}
	if t.HeartRate != nil {
		fmt.Fprintf(&sb, " %dbpm", *t.HeartRate)
	}
	return sb.String()
}

// coord prints a coordinate exactly, so it can be pasted back as an edit
// argument.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDistance formats metres with an SI prefix, e.g. "5.21 km".
func FormatDistance(m float64) string {
	if m < 1000 {
		return fmt.Sprintf("%.0f m", m)
	}
	return humanize.SIWithDigits(m, 2, "m")
}

// FormatSpeed formats metres per second as km/h.
func FormatSpeed(mps float64) string {
	return fmt.Sprintf("%.1f km/h", mps*3.6)
}

// FormatDuration formats a duration rounded to the second.
func FormatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "undated"
	}
	// clock skew or bad data
	if time.Since(t) < 0 {
		return color.YellowString("in the future")
	}
	return humanize.Time(t)
}

// ShortID returns the first block of the activity's UUID.
func ShortID(a *models.Activity) string {
	return a.ID.String()[:8]
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
