package database

// migrationsSQL holds the forward-only schema, keyed by version.
var migrationsSQL = map[int]string{
	1: migrationV1AlmanacDays,
	2: migrationV2AlmanacYears,
}

// migrationV1AlmanacDays stores one row per Gregorian day. Dates are ISO
// strings so range scans sort lexically. solar_term and festival are NULL on
// ordinary days.
const migrationV1AlmanacDays = `
CREATE TABLE IF NOT EXISTS almanac_days (
    date TEXT PRIMARY KEY,

    lunar_year INTEGER NOT NULL,
    lunar_month INTEGER NOT NULL CHECK (lunar_month BETWEEN 1 AND 12),
    lunar_day INTEGER NOT NULL CHECK (lunar_day BETWEEN 1 AND 30),
    is_leap_month INTEGER NOT NULL DEFAULT 0 CHECK (is_leap_month IN (0, 1)),

    month_name TEXT NOT NULL,
    day_name TEXT NOT NULL,
    year_name TEXT NOT NULL,
    zodiac TEXT NOT NULL,

    solar_term TEXT,
    festival TEXT,
    week_number INTEGER NOT NULL CHECK (week_number BETWEEN 1 AND 54),

    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_almanac_days_lunar
    ON almanac_days(lunar_year, lunar_month, lunar_day);

CREATE INDEX IF NOT EXISTS idx_almanac_days_term
    ON almanac_days(solar_term)
    WHERE solar_term IS NOT NULL;
`

// migrationV2AlmanacYears tracks which Gregorian years have been generated.
const migrationV2AlmanacYears = `
CREATE TABLE IF NOT EXISTS almanac_years (
    year INTEGER PRIMARY KEY,
    days INTEGER NOT NULL,
    generated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
