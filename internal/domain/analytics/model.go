package analytics

import "time"

// ClassCount pairs a class name with how many times the member attended it.
type ClassCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthCount is one bucket of the trailing monthly trend.
type MonthCount struct {
	Month string `json:"month"` // "2006-01"
	Count int    `json:"count"`
}

// DayCount is one bucket of the day-of-week histogram.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// MemberAnalytics is the full analytics view for a single member.
type MemberAnalytics struct {
	UserID            string       `json:"userId"`
	BeltRank          string       `json:"beltRank"`
	Stripes           int          `json:"stripes"`
	JoinedAt          time.Time    `json:"joinedAt"`
	TotalAttended     int          `json:"totalAttended"`
	AttendedThisMonth int          `json:"attendedThisMonth"`
	AttendedLastMonth int          `json:"attendedLastMonth"`
	WeeklyAverage     float64      `json:"weeklyAverage"`
	CurrentStreak     int          `json:"currentStreak"`
	LongestStreak     int          `json:"longestStreak"`
	FavoriteClasses   []ClassCount `json:"favoriteClasses"`
	MonthlyTrend      []MonthCount `json:"monthlyTrend"`
	DayOfWeek         []DayCount   `json:"dayOfWeek"`
	NextGoal          string       `json:"nextGoal"`
}
