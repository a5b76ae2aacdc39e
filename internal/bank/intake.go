// internal/bank/intake.go
//
// 新客戶資料的收集流程。輸入來源抽象為 Prompter，
// 讓此流程可在不模擬終端機的情況下測試。

package bank

import (
	"go.uber.org/zap"

	"bankrecords/internal/storage"
)

// Prompter 為互動輸入來源：顯示提示並讀回一行或一個數字。
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadFloat(prompt string) (float64, error)
	Notify(msg string)
}

// IntakeNewClient 收集新客戶資料，帳號已存在時會持續要求重新輸入。
// 只回傳資料，不寫入檔案；寫入由 AddClient 負責。
func (d *Directory) IntakeNewClient(p Prompter) (storage.Client, error) {
	var c storage.Client

	acct, err := p.ReadLine("Enter Account Number? ")
	if err != nil {
		return c, err
	}
	for {
		ok, err := d.IsAccountNumberAvailable(acct)
		if err != nil {
			return c, err
		}
		if ok {
			break
		}
		d.logger.Debug("account number rejected", zap.String("account", acct))
		p.Notify("Account number [" + acct + "] is not available.")
		if acct, err = p.ReadLine("Enter another Account Number? "); err != nil {
			return c, err
		}
	}
	c.AccountNumber = acct

	if err := readDetails(p, &c); err != nil {
		return storage.Client{}, err
	}
	return c, nil
}

// ReadClientUpdate 為既有帳號重新收集 PIN、姓名、電話與餘額。
// 帳號不存在時回傳 ErrNotFound，且不會提示任何欄位。
func (d *Directory) ReadClientUpdate(p Prompter, accountNumber string) (storage.Client, error) {
	if _, err := d.Find(accountNumber); err != nil {
		return storage.Client{}, err
	}
	c := storage.Client{AccountNumber: accountNumber}
	if err := readDetails(p, &c); err != nil {
		return storage.Client{}, err
	}
	return c, nil
}

// readDetails 依序讀取帳號以外的欄位；PIN、姓名、電話不做格式驗證。
func readDetails(p Prompter, c *storage.Client) error {
	var err error
	if c.PinCode, err = p.ReadLine("Enter PinCode? "); err != nil {
		return err
	}
	if c.Name, err = p.ReadLine("Enter Name? "); err != nil {
		return err
	}
	if c.Phone, err = p.ReadLine("Enter Phone? "); err != nil {
		return err
	}
	if c.AccountBalance, err = p.ReadFloat("Enter AccountBalance? "); err != nil {
		return err
	}
	return nil
}
