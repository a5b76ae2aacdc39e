// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 這些錯誤屬於商業邏輯層級（非系統錯誤），由選單層轉換成對使用者的提示訊息。

package bank

import "errors"

var (
	// ErrNotFound 代表帳號不存在。
	ErrNotFound = errors.New("client not found")

	// ErrAccountExists 代表帳號已被其他客戶使用。
	ErrAccountExists = errors.New("account number already exists")

	// ErrEmptyAccountNumber 代表帳號為空字串。
	ErrEmptyAccountNumber = errors.New("account number is empty")

	// ErrUnencodable 代表客戶資料寫成一行後無法再讀回（例如 PIN、姓名或電話為空）。
	ErrUnencodable = errors.New("client cannot be stored")

	// ErrBadAmount 代表金額非法（<=0）。
	ErrBadAmount = errors.New("amount must be > 0")

	// ErrInsufficient 代表提款金額超過餘額。
	ErrInsufficient = errors.New("amount exceeds the balance")

	// ErrInputClosed 由 Prompter 在輸入來源關閉（EOF）時回傳，選單層據此結束。
	ErrInputClosed = errors.New("input closed")
)
