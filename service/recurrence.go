package service

import (
	"errors"
	"fmt"
	"time"

	"budget/models"
)

// ErrInvalidRecurrence 未知周期规则（正常情况下数据入库前已校验，不应出现）
var ErrInvalidRecurrence = errors.New("无效的周期规则")

// NextRecurrence 计算下一个周期日期，纯函数，无副作用
//   - daily/weekly/biweekly 按天数推进
//   - monthly 推进一个日历月，目标月无对应日期时取该月最后一天（如 1月31日 -> 2月28/29日）
//   - yearly 推进一年，闰日在平年取 2月28日
//   - once 不应传入；约定传入时原样返回而不是报错
func NextRecurrence(date time.Time, rule string) (time.Time, error) {
	switch rule {
	case models.RecurrenceOnce:
		return date, nil
	case models.RecurrenceDaily:
		return date.AddDate(0, 0, 1), nil
	case models.RecurrenceWeekly:
		return date.AddDate(0, 0, 7), nil
	case models.RecurrenceBiweekly:
		return date.AddDate(0, 0, 14), nil
	case models.RecurrenceMonthly:
		return addMonthsClamped(date, 1), nil
	case models.RecurrenceYearly:
		return addMonthsClamped(date, 12), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidRecurrence, rule)
	}
}

// NextRecurrenceFrom 以 now 为下限计算下一个周期日期。
// 正常情况直接在原到期日上推进一个周期；若推进后仍不晚于 now
// （任务延迟太久，堆积了多个历史周期），则改以 now 为基准推进，
// 保证单次运行最多补一个周期，且结果一定严格晚于 now，不会在
// 同一天的重复运行中被反复处理
func NextRecurrenceFrom(date, now time.Time, rule string) (time.Time, error) {
	next, err := NextRecurrence(date, rule)
	if err != nil || rule == models.RecurrenceOnce {
		return next, err
	}
	if !next.After(now) {
		return NextRecurrence(now, rule)
	}
	return next, nil
}

// addMonthsClamped 按日历月推进，日期超出目标月时取目标月最后一天
// 不能用 time.AddDate：它会把 1月31日 + 1月 归一化成 3月2/3日
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	// day 0 表示上个月最后一天
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > last {
		d = last
	}
	h, min, sec := t.Clock()
	return time.Date(first.Year(), first.Month(), d, h, min, sec, t.Nanosecond(), t.Location())
}

// Midnight 截断到当天零点
// 每批处理开始时取一次作为 asOf，整批使用同一基准时间
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
