package utils

import (
	"time"
)

const (
	// CompactDateLayout is the YYYYMMDD form used by the market data provider.
	CompactDateLayout = "20060102"
	DateLayout        = "2006-01-02"
	DateTimeLayout    = "2006-01-02 15:04:05"
)

// GetCSTTimeLocation returns the Asia/Shanghai location, falling back to a
// fixed UTC+8 zone when tzdata is not installed.
func GetCSTTimeLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}

func TimeNowCST() time.Time {
	return time.Now().In(GetCSTTimeLocation())
}

// DateWindow returns the [now-days, now] range formatted as YYYYMMDD.
func DateWindow(now time.Time, days int) (start, end string) {
	return now.AddDate(0, 0, -days).Format(CompactDateLayout), now.Format(CompactDateLayout)
}
