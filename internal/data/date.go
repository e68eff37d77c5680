package data

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidDateFormat 自定义解析错误
var ErrInvalidDateFormat = errors.New("invalid date format")

// dateLayout 日期在 JSON 和日志中的格式
const dateLayout = "2006-01-02"

// Date 自定义日期类型，序列化为 "YYYY-MM-DD" 格式的字符串
type Date time.Time

// NewDate 根据年月日构造 Date
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func (d Date) MarshalJSON() ([]byte, error) {
	jsonValue := time.Time(d).Format(dateLayout)

	quotedJSONValue := strconv.Quote(jsonValue)
	return []byte(quotedJSONValue), nil
}

func (d *Date) UnmarshalJSON(jsonValue []byte) error {
	unquotedJSONValue, err := strconv.Unquote(string(jsonValue))
	if err != nil {
		return ErrInvalidDateFormat
	}

	t, err := time.Parse(dateLayout, unquotedJSONValue)
	if err != nil {
		return ErrInvalidDateFormat
	}

	*d = Date(t)

	return nil
}

// Scan 实现 sql.Scanner 接口，从数据库的 DATE 列读取
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = Date(v)
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("unsupported scan type for Date: %T", value)
	}
}

// Value 实现 driver.Valuer 接口，写入数据库
func (d Date) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Before 判断 d 是否早于 other
func (d Date) Before(other Date) bool {
	return time.Time(d).Before(time.Time(other))
}

// After 判断 d 是否晚于 other
func (d Date) After(other Date) bool {
	return time.Time(d).After(time.Time(other))
}

// IsZero 判断是否为零值（未提供日期）
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d Date) String() string {
	return time.Time(d).Format(dateLayout)
}
