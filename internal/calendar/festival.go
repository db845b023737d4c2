package calendar

// Traditional festivals on fixed lunar dates.
const (
	FestivalSpring      = "春节"
	FestivalLantern     = "元宵节"
	FestivalDragonBoat  = "端午节"
	FestivalQixi        = "七夕"
	FestivalGhost       = "中元节"
	FestivalMidAutumn   = "中秋节"
	FestivalDoubleNinth = "重阳节"
	FestivalLaba        = "腊八节"
	FestivalNewYearsEve = "除夕"
)

type lunarMonthDay struct {
	month, day int
}

var fixedFestivals = map[lunarMonthDay]string{
	{1, 1}:  FestivalSpring,
	{1, 15}: FestivalLantern,
	{5, 5}:  FestivalDragonBoat,
	{7, 7}:  FestivalQixi,
	{7, 15}: FestivalGhost,
	{8, 15}: FestivalMidAutumn,
	{9, 9}:  FestivalDoubleNinth,
	{12, 8}: FestivalLaba,
}

// FestivalOf returns the festival falling on a lunar date, or "" if none.
// Festivals are never observed in a leap month.
func FestivalOf(d LunarDate) string {
	if d.IsLeapMonth {
		return ""
	}
	if name, ok := fixedFestivals[lunarMonthDay{d.Month, d.Day}]; ok {
		return name
	}

	// New Year's Eve is the last day of 腊月, which may have 29 or 30 days.
	if d.Month == 12 && d.Year >= MinYear && d.Year <= MaxYear {
		if d.Day == decode(d.Year).MonthLengths[11] {
			return FestivalNewYearsEve
		}
	}

	return ""
}
