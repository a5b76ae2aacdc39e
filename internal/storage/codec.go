// internal/storage/codec.go
//
// 客戶資料與單行文字之間的轉換 (Record Codec)。
// 格式：帳號#//#PIN#//#姓名#//#電話#//#餘額，沒有跳脫字元。
// 若欄位內容本身包含分隔字串，往返轉換會失真，這是檔案格式既有的限制。
package storage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Delimiter 為欄位分隔字串。
const Delimiter = "#//#"

// fieldCount 為一行有效資料至少需要的欄位數。
const fieldCount = 5

// balancePlaces 為餘額寫檔時的小數位數，與既有資料檔一致（例如 250.000000）。
const balancePlaces = 6

var (
	// ErrTooFewFields 代表該行切割後的非空欄位少於五個。
	ErrTooFewFields = errors.New("too few fields")

	// ErrBadBalance 代表餘額欄位不是有限的十進位數字。
	ErrBadBalance = errors.New("balance is not a decimal number")
)

// ParseError 描述無法解析的一行資料。
// LineNo 為檔案中的行號（從 1 開始）；單獨解碼時為 0。
type ParseError struct {
	LineNo int
	Line   string
	Err    error
}

func (e *ParseError) Error() string {
	if e.LineNo > 0 {
		return fmt.Sprintf("line %d: %q: %v", e.LineNo, e.Line, e.Err)
	}
	return fmt.Sprintf("%q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Encode 將客戶資料轉為一行文字（不含換行）。
func Encode(c Client) string {
	return strings.Join([]string{
		c.AccountNumber,
		c.PinCode,
		c.Name,
		c.Phone,
		formatBalance(c.AccountBalance),
	}, Delimiter)
}

// Decode 將一行文字還原為客戶資料。
// 空欄位會被直接丟棄，多出來的欄位則忽略。
func Decode(line string) (Client, error) {
	fields := splitFields(line)
	if len(fields) < fieldCount {
		return Client{}, &ParseError{Line: line, Err: ErrTooFewFields}
	}
	bal, err := parseBalance(fields[4])
	if err != nil {
		return Client{}, &ParseError{Line: line, Err: err}
	}
	return Client{
		AccountNumber:  fields[0],
		PinCode:        fields[1],
		Name:           fields[2],
		Phone:          fields[3],
		AccountBalance: bal,
	}, nil
}

// splitFields 以 Delimiter 切割字串，並丟棄所有空片段。
// 因此連續兩個分隔字串會被視為一個。
func splitFields(line string) []string {
	parts := strings.Split(line, Delimiter)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatBalance(v float64) string {
	// decimal.NewFromFloat 遇到 NaN/Inf 會 panic
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', balancePlaces, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(balancePlaces)
}

func parseBalance(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadBalance, err)
	}
	return d.InexactFloat64(), nil
}
