package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"academy-manager/backend/internal/dateutil"
	"academy-manager/backend/internal/domain/attendance"
	"academy-manager/backend/internal/domain/member"
	"academy-manager/backend/internal/identity"
	"academy-manager/backend/internal/utils"
)

// trendMonths is how many calendar months the monthly trend covers,
// current month included.
const trendMonths = 6

// streakLookback bounds how far back the current-streak walk goes.
const streakLookback = 30

// AttendanceSource supplies a member's attendance history. A limit of zero
// or less means the full history; every computation here needs all of it.
type AttendanceSource interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]attendance.Record, error)
}

// MemberSource supplies profile and progress documents. Both return
// nil, nil when the document does not exist.
type MemberSource interface {
	GetMember(ctx context.Context, userID string) (*member.Member, error)
	GetProgress(ctx context.Context, userID string) (*member.ProgressSnapshot, error)
}

type Service struct {
	history AttendanceSource
	members MemberSource
	now     func() time.Time
}

func NewService(history AttendanceSource, members MemberSource) *Service {
	return &Service{history: history, members: members, now: time.Now}
}

// MemberAnalytics computes the analytics view for userID. Members may only
// read their own view; coaches and admins may read anyone's.
func (s *Service) MemberAnalytics(ctx context.Context, actor identity.Actor, userID string) (*MemberAnalytics, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrBadRequest)
	}
	if actor.UID != userID && !actor.Operator() {
		return nil, fmt.Errorf("%w: analytics are restricted to the member and staff", ErrForbidden)
	}

	records, err := s.history.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	mem, err := s.members.GetMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	prog, err := s.members.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Every calendar boundary below (months, streak days, weekday buckets)
	// is drawn on the UTC calendar, matching the record timestamps.
	now := s.now().UTC()

	out := &MemberAnalytics{
		UserID:        userID,
		BeltRank:      member.DefaultBeltRank,
		Stripes:       0,
		JoinedAt:      now,
		TotalAttended: len(records),
	}
	if prog != nil {
		out.BeltRank = prog.BeltRank
		out.Stripes = prog.Stripes
	}
	switch {
	case mem != nil && !mem.JoinedAt.IsZero():
		out.JoinedAt = mem.JoinedAt
	case prog != nil && !prog.CreatedAt.IsZero():
		out.JoinedAt = prog.CreatedAt
	}

	out.AttendedThisMonth, out.AttendedLastMonth = monthTotals(records, now)
	out.WeeklyAverage = weeklyAverage(len(records), out.JoinedAt, now)

	days := attendanceDays(records)
	out.CurrentStreak = currentStreak(days, now)
	out.LongestStreak = longestStreak(days)

	out.FavoriteClasses = favoriteClasses(records)
	out.MonthlyTrend = monthlyTrend(records, now)
	out.DayOfWeek = weekdayHistogram(records)
	out.NextGoal = NextGoal(out.BeltRank, out.Stripes)

	return out, nil
}

func monthTotals(records []attendance.Record, now time.Time) (thisMonth, lastMonth int) {
	cur := dateutil.FirstOfMonth(now)
	prev := cur.AddDate(0, -1, 0)
	for _, rec := range records {
		t := rec.CheckInTime.UTC()
		switch {
		case !t.Before(cur):
			thisMonth++
		case !t.Before(prev):
			lastMonth++
		}
	}
	return thisMonth, lastMonth
}

// weeklyAverage is total check-ins divided by full membership weeks, with
// both days and weeks floored at one so new members see a sane number.
func weeklyAverage(total int, joinedAt, now time.Time) float64 {
	days := int(now.Sub(joinedAt).Hours() / 24)
	if days < 1 {
		days = 1
	}
	weeks := days / 7
	if weeks < 1 {
		weeks = 1
	}
	avg := float64(total) / float64(weeks)
	return math.Round(avg*10) / 10
}

// attendanceDays collapses records to the set of distinct attendance dates,
// keyed by day string.
func attendanceDays(records []attendance.Record) map[string]bool {
	days := make(map[string]bool, len(records))
	for _, rec := range records {
		days[dateutil.DayKey(rec.CheckInTime.UTC())] = true
	}
	return days
}

// currentStreak counts consecutive attendance days ending at now. A miss
// today does not break the streak (the day is not over yet); any earlier
// gap does. The walk is capped at streakLookback days.
func currentStreak(days map[string]bool, now time.Time) int {
	streak := 0
	for i := 0; i < streakLookback; i++ {
		day := dateutil.DayKey(now.UTC().AddDate(0, 0, -i))
		if days[day] {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		break
	}
	return streak
}

// longestStreak finds the longest run of consecutive distinct attendance
// days anywhere in the history.
func longestStreak(days map[string]bool) int {
	if len(days) == 0 {
		return 0
	}

	dates := make([]time.Time, 0, len(days))
	for key := range days {
		t, err := time.Parse(dateutil.DayFormat, key)
		if err != nil {
			continue
		}
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// favoriteClasses groups attendance by class name and returns the groups
// by descending count. Names that differ only in case or diacritics are
// folded together; the first spelling seen wins. Ties keep encounter order.
func favoriteClasses(records []attendance.Record) []ClassCount {
	counts := map[string]int{}
	display := map[string]string{}
	var order []string

	for _, rec := range records {
		if rec.ClassName == "" {
			continue
		}
		key := utils.Slugify(rec.ClassName)
		if _, ok := counts[key]; !ok {
			display[key] = rec.ClassName
			order = append(order, key)
		}
		counts[key]++
	}

	out := make([]ClassCount, 0, len(order))
	for _, key := range order {
		out = append(out, ClassCount{Name: display[key], Count: counts[key]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// monthlyTrend buckets check-ins into the trailing six calendar months,
// oldest first, zero-filled.
func monthlyTrend(records []attendance.Record, now time.Time) []MonthCount {
	start := dateutil.FirstOfMonth(now).AddDate(0, -(trendMonths - 1), 0)

	out := make([]MonthCount, trendMonths)
	index := map[string]int{}
	for i := 0; i < trendMonths; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		out[i] = MonthCount{Month: key}
		index[key] = i
	}

	for _, rec := range records {
		key := rec.CheckInTime.UTC().Format("2006-01")
		if i, ok := index[key]; ok {
			out[i].Count++
		}
	}
	return out
}

// weekdayHistogram counts check-ins per weekday, Sunday through Saturday,
// zero-filled.
func weekdayHistogram(records []attendance.Record) []DayCount {
	out := make([]DayCount, 7)
	for i := range out {
		out[i].Day = time.Weekday(i).String()
	}
	for _, rec := range records {
		out[rec.CheckInTime.UTC().Weekday()].Count++
	}
	return out
}
