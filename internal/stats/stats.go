package stats

import (
	"math"
	"sort"
	"time"

	"booktrack/internal/book"
	"booktrack/internal/readinglog"
)

// View selects the reporting period around a reference date.
type View string

const (
	ViewWeek  View = "week" // Monday-start calendar week
	ViewMonth View = "month"
	ViewYear  View = "year"
)

func (v View) Valid() bool {
	switch v {
	case ViewWeek, ViewMonth, ViewYear:
		return true
	}
	return false
}

const dayFormat = "2006-01-02"

// DayStat is the reading activity of a single calendar day.
type DayStat struct {
	Date    string `json:"date"`
	Pages   int    `json:"pages"`
	Minutes int    `json:"minutes"`
}

// Totals aggregates pages and minutes, all time and inside the period.
type Totals struct {
	Pages         int `json:"pages"`
	Minutes       int `json:"minutes"`
	PeriodPages   int `json:"period_pages"`
	PeriodMinutes int `json:"period_minutes"`
	PagesPerHour  int `json:"pages_per_hour"`
}

// Streak counts consecutive reading days. Current tolerates a gap of one day
// so a streak survives until the end of the day after the last session.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// StatusLine summarizes one shelf of the library.
type StatusLine struct {
	Status book.Status `json:"status"`
	Books  int         `json:"books"`
	Pages  int         `json:"pages"`
}

// Averages is the mean daily activity over the trailing seven days.
type Averages struct {
	Pages   float64 `json:"pages"`
	Minutes float64 `json:"minutes"`
}

// Result is the full statistics payload for one view.
type Result struct {
	View        View         `json:"view"`
	PeriodStart string       `json:"period_start"`
	PeriodEnd   string       `json:"period_end"`
	Totals      Totals       `json:"totals"`
	Today       DayStat      `json:"today"`
	Yesterday   DayStat      `json:"yesterday"`
	Last7       Averages     `json:"last_7_days"`
	Streak      Streak       `json:"streak"`
	Statuses    []StatusLine `json:"statuses"`
	Chart       []DayStat    `json:"chart"`
	Forecasts   []Forecast   `json:"forecasts"`
}

// periodBounds resolves the calendar window containing ref for the view.
func periodBounds(view View, ref time.Time) (time.Time, time.Time) {
	switch view {
	case ViewMonth:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	case ViewYear:
		start := time.Date(ref.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, -1)
	default:
		back := (int(ref.Weekday()) + 6) % 7 // days since Monday
		start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -back)
		return start, start.AddDate(0, 0, 6)
	}
}

// Compute derives the statistics view from the user's library and session
// history. Pure: no I/O, no clock reads beyond the passed instants.
func Compute(books []book.Book, logs []readinglog.Log, view View, ref, now time.Time) Result {
	if !view.Valid() {
		view = ViewWeek
	}
	start, end := periodBounds(view, ref)

	res := Result{
		View:        view,
		PeriodStart: start.Format(dayFormat),
		PeriodEnd:   end.Format(dayFormat),
	}

	pagesByDay := make(map[string]int)
	minutesByDay := make(map[string]int)
	for _, l := range logs {
		pagesByDay[l.Date] += l.TotalRead
		if l.Minutes != nil {
			minutesByDay[l.Date] += *l.Minutes
		}
		res.Totals.Pages += l.TotalRead
		if l.Minutes != nil {
			res.Totals.Minutes += *l.Minutes
		}
	}

	if res.Totals.Minutes > 0 {
		res.Totals.PagesPerHour = int(math.Round(float64(res.Totals.Pages) / (float64(res.Totals.Minutes) / 60)))
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayFormat)
		point := DayStat{Date: key, Pages: pagesByDay[key], Minutes: minutesByDay[key]}
		res.Chart = append(res.Chart, point)
		res.Totals.PeriodPages += point.Pages
		res.Totals.PeriodMinutes += point.Minutes
	}

	today := now.UTC().Format(dayFormat)
	yesterday := now.UTC().AddDate(0, 0, -1).Format(dayFormat)
	res.Today = DayStat{Date: today, Pages: pagesByDay[today], Minutes: minutesByDay[today]}
	res.Yesterday = DayStat{Date: yesterday, Pages: pagesByDay[yesterday], Minutes: minutesByDay[yesterday]}

	var p7, m7 int
	for i := 0; i < 7; i++ {
		key := now.UTC().AddDate(0, 0, -i).Format(dayFormat)
		p7 += pagesByDay[key]
		m7 += minutesByDay[key]
	}
	res.Last7 = Averages{
		Pages:   math.Round(float64(p7)/7*10) / 10,
		Minutes: math.Round(float64(m7)/7*10) / 10,
	}

	res.Streak = streaks(pagesByDay, now)
	res.Statuses = statusLines(books)
	res.Forecasts = forecasts(books, logs, now)

	return res
}

// streaks walks the distinct reading days. The current streak anchors at
// today, or at yesterday when today has no session yet.
func streaks(pagesByDay map[string]int, now time.Time) Streak {
	var days []time.Time
	for key, pages := range pagesByDay {
		if pages <= 0 {
			continue
		}
		if d, err := time.Parse(dayFormat, key); err == nil {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return Streak{}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var st Streak
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > st.Longest {
			st.Longest = run
		}
	}
	if st.Longest == 0 {
		st.Longest = 1
	}

	read := make(map[string]bool, len(days))
	for _, d := range days {
		read[d.Format(dayFormat)] = true
	}

	anchor := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	if !read[anchor.Format(dayFormat)] {
		anchor = anchor.AddDate(0, 0, -1)
	}
	for read[anchor.Format(dayFormat)] {
		st.Current++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return st
}

func statusLines(books []book.Book) []StatusLine {
	order := []book.Status{book.StatusToRead, book.StatusReading, book.StatusFinished}
	byStatus := make(map[book.Status]*StatusLine, len(order))

	lines := make([]StatusLine, len(order))
	for i, s := range order {
		lines[i] = StatusLine{Status: s}
		byStatus[s] = &lines[i]
	}

	for _, b := range books {
		line, ok := byStatus[b.Status]
		if !ok {
			continue
		}
		line.Books++
		line.Pages += b.PagesRead
	}
	return lines
}
