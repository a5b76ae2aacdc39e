// internal/console/prompt.go
//
// 以行為單位的輸入來源，實作 bank.Prompter。
// 任何 io.Reader 皆可作為輸入，測試時直接餵入字串即可。
package console

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"bankrecords/internal/bank"
)

type linePrompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{sc: bufio.NewScanner(in), out: out}
}

// ReadLine 顯示提示並讀回一行（去除前後空白）；輸入結束時回傳 bank.ErrInputClosed。
func (p *linePrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", bank.ErrInputClosed
	}
	return strings.TrimSpace(p.sc.Text()), nil
}

// ReadFloat 重複詢問直到取得有限的數字。
func (p *linePrompter) ReadFloat(prompt string) (float64, error) {
	for {
		s, err := p.ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, nil
		}
		p.Notify("Invalid number, please enter a numeric value.")
	}
}

// ReadChoice 重複詢問直到取得 [lo, hi] 範圍內的整數。
func (p *linePrompter) ReadChoice(prompt string, lo, hi int) (int, error) {
	for {
		s, err := p.ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= lo && n <= hi {
			return n, nil
		}
		p.Notify(fmt.Sprintf("Invalid choice, enter a number between %d and %d.", lo, hi))
	}
}

// Confirm 詢問 y/n，只有 y 或 Y 視為同意。
func (p *linePrompter) Confirm(prompt string) (bool, error) {
	s, err := p.ReadLine(prompt + " y/n? ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(s, "y"), nil
}

func (p *linePrompter) Notify(msg string) {
	fmt.Fprintln(p.out, msg)
}
