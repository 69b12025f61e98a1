package service

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/AJ4200/whatiearn/internal/payroll"
)

// ── ICS 节假日解析 ──────────────────────────────────────────
//
// 全天 VEVENT（DTSTART;VALUE=DATE）转为自定义节假日：
//   - DTEND 为不含当天的结束日，多日事件逐日展开
//   - RRULE 仅支持 FREQ=YEARLY（COUNT / UNTIL），其余重复规则只取首次
//   - 带时刻的事件不视为节假日，记入警告
// ─────────────────────────────────────────────────────────────

const (
	// ICSMaxFileSize 导入文件大小上限
	ICSMaxFileSize = 2 * 1024 * 1024

	icsMaxEventDays    = 31
	icsMaxYearlyRepeat = 10
)

// parsedHoliday 解析出的单日节假日
type parsedHoliday struct {
	Date string
	Name string
}

// parseHolidayICS 解析 ICS 内容，返回按日期排序、同日去重的节假日与警告
func parseHolidayICS(reader io.Reader) ([]parsedHoliday, []string, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	var warnings []string
	byDate := make(map[string]string)
	for _, evt := range cal.Events() {
		days, name, warn := parseHolidayEvent(evt)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		for _, d := range days {
			// 同一日期保留第一条
			if _, ok := byDate[d]; !ok {
				byDate[d] = name
			}
		}
	}

	result := make([]parsedHoliday, 0, len(byDate))
	for d, n := range byDate {
		result = append(result, parsedHoliday{Date: d, Name: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, warnings, nil
}

// parseHolidayEvent 解析单个 VEVENT，返回覆盖的日期键
func parseHolidayEvent(evt *ics.VEvent) ([]string, string, string) {
	name := ""
	if summary := evt.GetProperty(ics.ComponentPropertySummary); summary != nil {
		name = strings.TrimSpace(summary.Value)
	}
	if name == "" {
		name = defaultHolidayName
	}

	start, err := parseICSDate(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return nil, "", fmt.Sprintf("%s: %v", name, err)
	}

	days := 1
	if end, err := parseICSDate(evt, ics.ComponentPropertyDtEnd); err == nil {
		days = int(end.Sub(start).Hours() / 24)
		if days < 1 {
			days = 1
		}
	}
	if days > icsMaxEventDays {
		return nil, "", fmt.Sprintf("%s: 事件跨度超过 %d 天，已忽略", name, icsMaxEventDays)
	}

	starts := []time.Time{start}
	var warn string
	if prop := evt.GetProperty(ics.ComponentPropertyRrule); prop != nil {
		starts, warn = expandYearly(prop.Value, start)
		if warn != "" {
			warn = name + ": " + warn
		}
	}

	var keys []string
	for _, s := range starts {
		for i := 0; i < days; i++ {
			keys = append(keys, payroll.DateKey(s.AddDate(0, 0, i)))
		}
	}
	return keys, name, warn
}

// expandYearly 展开 FREQ=YEARLY 的重复
func expandYearly(rule string, start time.Time) ([]time.Time, string) {
	freq, count, until := "", 0, time.Time{}
	for _, part := range strings.Split(rule, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "FREQ":
			freq = strings.ToUpper(kv[1])
		case "COUNT":
			count, _ = strconv.Atoi(kv[1])
		case "UNTIL":
			if t, err := time.Parse("20060102", kv[1][:min(8, len(kv[1]))]); err == nil {
				until = t
			}
		}
	}

	if freq != "YEARLY" {
		return []time.Time{start}, fmt.Sprintf("不支持的重复规则 %s，仅导入首次", freq)
	}
	if count <= 0 || count > icsMaxYearlyRepeat {
		count = icsMaxYearlyRepeat
	}

	out := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		t := start.AddDate(i, 0, 0)
		if !until.IsZero() && t.After(until) {
			break
		}
		out = append(out, t)
	}
	return out, ""
}

// parseICSDate 解析全天日期属性（YYYYMMDD）；带时刻的值返回错误
func parseICSDate(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("缺少 %s", propName)
	}
	val := strings.TrimSpace(prop.Value)
	if len(val) != len("20060102") {
		return time.Time{}, fmt.Errorf("非全天事件（%s=%s），已忽略", propName, val)
	}
	t, err := time.Parse("20060102", val)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
	}
	return t, nil
}
