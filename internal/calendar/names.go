package calendar

// Fixed name tables. The Chinese forms are canonical; translations live in
// the i18n package.
var (
	monthNames = [12]string{
		"正月", "二月", "三月", "四月", "五月", "六月",
		"七月", "八月", "九月", "十月", "冬月", "腊月",
	}

	dayNames = [30]string{
		"初一", "初二", "初三", "初四", "初五", "初六", "初七", "初八", "初九", "初十",
		"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
		"廿一", "廿二", "廿三", "廿四", "廿五", "廿六", "廿七", "廿八", "廿九", "三十",
	}

	heavenlyStems = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

	earthlyBranches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

	zodiacAnimals = [12]string{"鼠", "牛", "虎", "兔", "龙", "蛇", "马", "羊", "猴", "鸡", "狗", "猪"}
)

// leapPrefix marks an intercalary month name.
const leapPrefix = "闰"

// MonthName returns the traditional name of a lunar month, prefixed for leap months.
func MonthName(month int, leap bool) string {
	if month < 1 || month > 12 {
		return ""
	}
	if leap {
		return leapPrefix + monthNames[month-1]
	}
	return monthNames[month-1]
}

// DayName returns the traditional name of a lunar day of month (1-30).
func DayName(day int) string {
	if day < 1 || day > 30 {
		return ""
	}
	return dayNames[day-1]
}

// cycleIndex maps a year onto a cycle of length n, anchored at 4 CE (甲子).
func cycleIndex(year, n int) int {
	i := (year - 4) % n
	if i < 0 {
		i += n
	}
	return i
}

// YearName returns the sexagenary (stem-branch) name of a lunar year.
func YearName(year int) string {
	return heavenlyStems[cycleIndex(year, 10)] + earthlyBranches[cycleIndex(year, 12)]
}

// Zodiac returns the animal sign of a lunar year.
func Zodiac(year int) string {
	return zodiacAnimals[ZodiacIndex(year)]
}

// ZodiacIndex returns the position (0-11) of a lunar year's animal in the
// twelve-year cycle, starting from the rat.
func ZodiacIndex(year int) int {
	return cycleIndex(year, 12)
}
