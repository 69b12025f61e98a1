package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/AJ4200/whatiearn/internal/payroll"
)

// holidayFile 公共假日文件结构（yaml / json / toml 均可）
//
//	years:
//	  - year: 2027
//	    holidays:
//	      - { date: "2027-01-01", name: "New Year's Day" }
type holidayFile struct {
	Years []struct {
		Year     int                     `mapstructure:"year"`
		Holidays []payroll.PublicHoliday `mapstructure:"holidays"`
	} `mapstructure:"years"`
}

// PublicHolidays 内置公共假日表，配置了 public_holidays_file 时按年份覆盖/追加
func (p *PayrollConfig) PublicHolidays() (payroll.HolidayTable, error) {
	table := payroll.DefaultPublicHolidays()
	if p.PublicHolidaysFile == "" {
		return table, nil
	}

	extra, err := LoadPublicHolidays(p.PublicHolidaysFile)
	if err != nil {
		return nil, err
	}
	return table.Merge(extra), nil
}

// LoadPublicHolidays 读取公共假日文件
func LoadPublicHolidays(path string) (payroll.HolidayTable, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取公共假日文件失败: %w", err)
	}

	var f holidayFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("解析公共假日文件失败: %w", err)
	}

	table := make(payroll.HolidayTable, len(f.Years))
	for _, y := range f.Years {
		for _, h := range y.Holidays {
			d, err := payroll.ParseDate(h.Date)
			if err != nil {
				return nil, fmt.Errorf("公共假日 %q: %w", h.Name, err)
			}
			if d.Year() != y.Year {
				return nil, fmt.Errorf("公共假日 %s 不属于 %d 年", h.Date, y.Year)
			}
		}
		table[y.Year] = y.Holidays
	}
	return table, nil
}
