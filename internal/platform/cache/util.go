package cache

import (
	"time"
)

// closeRefreshHour は日足データが確定したとみなすニューヨーク時間（引け16時＋余裕）です。
const closeRefreshHour = 18

var newYork = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// tzdata が無い環境では固定オフセット（EST）で代用
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// TimeUntilNextClose は now から次の18時（ニューヨーク時間）までの期間を返します。
func TimeUntilNextClose(now time.Time) time.Duration {
	local := now.In(newYork)
	next := time.Date(local.Year(), local.Month(), local.Day(), closeRefreshHour, 0, 0, 0, newYork)

	// 今日の18時が既に過ぎている場合は翌日の18時を使用
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
