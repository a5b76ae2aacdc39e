// internal/bank/directory.go

// Package bank 定義客戶目錄的商業邏輯：查詢、新增、刪除、更新、存提款與總餘額。
// 所有資料都透過 Store 讀寫，本層不持有快取；每次操作都從檔案重新載入。
// 「讀取 → 修改 → 整檔寫回」的流程由單一互斥鎖序列化，避免同行程內的競爭。
package bank

import (
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bankrecords/internal/storage"
)

// Store 為 Directory 需要的持久化介面，由 storage.FileStore 實作。
type Store interface {
	Exists(accountNumber string) (bool, error)
	LoadAll() ([]storage.Client, error)
	SaveAll(entries []storage.Entry) error
	AppendLine(line string) error
}

// Directory 為客戶目錄的進入點。
// - mu：序列化所有會寫回檔案的複合操作。
// - store：實際的持久化後端。
type Directory struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
}

// NewDirectory 建立客戶目錄；logger 可為 nil。
func NewDirectory(store Store, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{store: store, logger: logger}
}

// FindByAccountNumber 在記憶體中的客戶清單線性搜尋，第一筆相符者勝出。
func FindByAccountNumber(accountNumber string, clients []storage.Client) (storage.Client, bool) {
	for _, c := range clients {
		if c.AccountNumber == accountNumber {
			return c, true
		}
	}
	return storage.Client{}, false
}

// MarkForDeletion 將清單轉為 Entry，並標記第一筆相符的客戶。
// 回傳的 bool 表示是否有找到該帳號。
func MarkForDeletion(accountNumber string, clients []storage.Client) ([]storage.Entry, bool) {
	entries := storage.Entries(clients)
	for i := range entries {
		if entries[i].AccountNumber == accountNumber {
			entries[i].MarkedForDeletion = true
			return entries, true
		}
	}
	return entries, false
}

// IsAccountNumberAvailable 回報帳號是否可供新客戶使用。
// 空字串永遠不可用；檔案讀取失敗視為檔案不存在（可用）。
func (d *Directory) IsAccountNumberAvailable(accountNumber string) (bool, error) {
	if accountNumber == "" {
		return false, nil
	}
	exists, err := d.store.Exists(accountNumber)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// List 回傳目前檔案中的所有客戶（檔案不存在時為空清單）。
func (d *Directory) List() ([]storage.Client, error) {
	return d.store.LoadAll()
}

// Find 依帳號載入單一客戶；不存在回傳 ErrNotFound。
func (d *Directory) Find(accountNumber string) (storage.Client, error) {
	clients, err := d.store.LoadAll()
	if err != nil {
		return storage.Client{}, err
	}
	c, ok := FindByAccountNumber(accountNumber, clients)
	if !ok {
		return storage.Client{}, ErrNotFound
	}
	return c, nil
}

// AddClient 再次確認帳號可用後，將客戶附加到檔案尾端。
// 編碼後無法再解碼的客戶（例如空白的 PIN）回傳 ErrUnencodable，不寫檔。
func (d *Directory) AddClient(c storage.Client) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c.AccountNumber == "" {
		return ErrEmptyAccountNumber
	}
	line, err := encode(c)
	if err != nil {
		return err
	}
	ok, err := d.IsAccountNumberAvailable(c.AccountNumber)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountExists
	}
	if err := d.store.AppendLine(line); err != nil {
		return fmt.Errorf("add client %s: %w", c.AccountNumber, err)
	}
	d.logger.Info("client added", zap.String("account", c.AccountNumber))
	return nil
}

// Delete 載入全部客戶、標記目標後整檔寫回；不存在回傳 ErrNotFound。
func (d *Directory) Delete(accountNumber string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	clients, err := d.store.LoadAll()
	if err != nil {
		return err
	}
	entries, ok := MarkForDeletion(accountNumber, clients)
	if !ok {
		return ErrNotFound
	}
	if err := d.store.SaveAll(entries); err != nil {
		return fmt.Errorf("delete client %s: %w", accountNumber, err)
	}
	d.logger.Info("client deleted", zap.String("account", accountNumber))
	return nil
}

// Update 以 c 取代同帳號的第一筆客戶資料後整檔寫回。
func (d *Directory) Update(c storage.Client) error {
	if _, err := encode(c); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.modify(c.AccountNumber, func(old *storage.Client) error {
		*old = c
		return nil
	})
	if err != nil {
		return err
	}
	d.logger.Info("client updated", zap.String("account", c.AccountNumber))
	return nil
}

// Deposit 存款：金額需 > 0；回傳更新後的客戶。
func (d *Directory) Deposit(accountNumber string, amount float64) (storage.Client, error) {
	if !validAmount(amount) {
		return storage.Client{}, ErrBadAmount
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.modify(accountNumber, func(c *storage.Client) error {
		c.AccountBalance = decimal.NewFromFloat(c.AccountBalance).
			Add(decimal.NewFromFloat(amount)).InexactFloat64()
		return nil
	})
	if err != nil {
		return storage.Client{}, err
	}
	d.logger.Info("deposit", zap.String("account", accountNumber), zap.Float64("amount", amount))
	return c, nil
}

// Withdraw 提款：金額需 > 0 且不得超過餘額。
func (d *Directory) Withdraw(accountNumber string, amount float64) (storage.Client, error) {
	if !validAmount(amount) {
		return storage.Client{}, ErrBadAmount
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.modify(accountNumber, func(c *storage.Client) error {
		bal := decimal.NewFromFloat(c.AccountBalance)
		amt := decimal.NewFromFloat(amount)
		if amt.GreaterThan(bal) {
			return ErrInsufficient
		}
		c.AccountBalance = bal.Sub(amt).InexactFloat64()
		return nil
	})
	if err != nil {
		return storage.Client{}, err
	}
	d.logger.Info("withdraw", zap.String("account", accountNumber), zap.Float64("amount", amount))
	return c, nil
}

// TotalBalances 回傳所有客戶餘額總和。
func (d *Directory) TotalBalances() (float64, error) {
	clients, err := d.store.LoadAll()
	if err != nil {
		return 0, err
	}
	return SumBalances(clients), nil
}

// SumBalances 以十進位運算加總 clients 的餘額。
func SumBalances(clients []storage.Client) float64 {
	total := decimal.Zero
	for _, c := range clients {
		total = total.Add(decimal.NewFromFloat(c.AccountBalance))
	}
	return total.InexactFloat64()
}

// encode 將客戶編碼為一行，並確認該行能被讀回。
// 空欄位會讓分隔字串相連而被合併，寫入後整個檔案都將無法解析。
func encode(c storage.Client) (string, error) {
	line := storage.Encode(c)
	if _, err := storage.Decode(line); err != nil {
		return "", fmt.Errorf("%w: account %s: %w", ErrUnencodable, c.AccountNumber, err)
	}
	return line, nil
}

// validAmount 排除 <=0、NaN 與 Inf。
func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// modify 載入全部客戶，對第一筆相符者套用 fn，成功後整檔寫回。
// 呼叫端需持有 d.mu。fn 回傳錯誤時不寫檔。
func (d *Directory) modify(accountNumber string, fn func(*storage.Client) error) (storage.Client, error) {
	clients, err := d.store.LoadAll()
	if err != nil {
		return storage.Client{}, err
	}
	idx := -1
	for i := range clients {
		if clients[i].AccountNumber == accountNumber {
			idx = i
			break
		}
	}
	if idx < 0 {
		return storage.Client{}, ErrNotFound
	}
	if err := fn(&clients[idx]); err != nil {
		return storage.Client{}, err
	}
	if err := d.store.SaveAll(storage.Entries(clients)); err != nil {
		return storage.Client{}, fmt.Errorf("save client %s: %w", accountNumber, err)
	}
	return clients[idx], nil
}
