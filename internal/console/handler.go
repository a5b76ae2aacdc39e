// internal/console/handler.go
//
// Package console
// ─────────────────────────────────────────────
// 提供選單式的文字介面，作為 bank 模組的應用層 (Application Layer)。
// 每個 handler 僅負責：
//  1. 讀取並驗證使用者輸入
//  2. 呼叫 bank 層執行商業邏輯
//  3. 透過 render.go 輸出畫面
//
// 分層：
//   - bank：純商業邏輯，與終端機無關。
//   - console：處理輸入與畫面。
//   - storage：負責持久化。
package console

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"bankrecords/internal/bank"
	"bankrecords/internal/storage"
)

// Console 為選單層核心結構：
// - dir：注入商業邏輯層（客戶目錄）。
// - in：行輸入來源，同時實作 bank.Prompter 供新增 / 更新流程使用。
type Console struct {
	dir    *bank.Directory
	in     *linePrompter
	out    io.Writer
	logger *zap.Logger
}

// New 建立選單介面；logger 可為 nil。
func New(dir *bank.Directory, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{dir: dir, in: newLinePrompter(in, out), out: out, logger: logger}
}

// ShowClients 顯示客戶清單（選單 [1]，亦供 `list` 子命令使用）。
func (c *Console) ShowClients() error {
	clients, err := c.dir.List()
	if err != nil {
		return err
	}
	writeClients(c.out, clients)
	return nil
}

// ShowTotalBalances 顯示餘額表與總額（交易選單 [3]，亦供 `total` 子命令使用）。
func (c *Console) ShowTotalBalances() error {
	clients, err := c.dir.List()
	if err != nil {
		return err
	}
	// 總額與表格取自同一次載入
	writeBalances(c.out, clients, bank.SumBalances(clients))
	return nil
}

// addClients 重複新增客戶，直到使用者不再繼續。
func (c *Console) addClients() error {
	writeTitle(c.out, "Add New Clients Screen")
	for {
		fmt.Fprintln(c.out, "Adding New Client:")
		client, err := c.dir.IntakeNewClient(c.in)
		if err != nil {
			return err
		}
		if err := c.dir.AddClient(client); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Client Added Successfully.")

		more, err := c.in.Confirm("Do you want to add more clients?")
		if err != nil || !more {
			return err
		}
	}
}

// findClient 依帳號顯示客戶卡片。
func (c *Console) findClient() error {
	writeTitle(c.out, "Find Client Screen")
	client, err := c.lookup()
	if err != nil {
		return err
	}
	writeCard(c.out, client)
	return nil
}

// deleteClient 顯示客戶卡片並確認後刪除。
func (c *Console) deleteClient() error {
	writeTitle(c.out, "Delete Client Screen")
	client, err := c.lookup()
	if err != nil {
		return err
	}
	writeCard(c.out, client)

	ok, err := c.in.Confirm("Are you sure you want to delete this client?")
	if err != nil || !ok {
		return err
	}
	if err := c.dir.Delete(client.AccountNumber); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Client Deleted Successfully.")
	return nil
}

// updateClient 顯示客戶卡片，確認後重新輸入帳號以外的欄位。
func (c *Console) updateClient() error {
	writeTitle(c.out, "Update Client Info Screen")
	client, err := c.lookup()
	if err != nil {
		return err
	}
	writeCard(c.out, client)

	ok, err := c.in.Confirm("Are you sure you want to update this client?")
	if err != nil || !ok {
		return err
	}
	updated, err := c.dir.ReadClientUpdate(c.in, client.AccountNumber)
	if err != nil {
		return err
	}
	if err := c.dir.Update(updated); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Client Updated Successfully.")
	return nil
}

// deposit 存款：帳號不存在時持續要求重新輸入。
func (c *Console) deposit() error {
	writeTitle(c.out, "Deposit Screen")
	return c.transact("deposit", c.dir.Deposit)
}

// withdraw 提款：金額超過餘額時由 bank 層回傳 ErrInsufficient。
func (c *Console) withdraw() error {
	writeTitle(c.out, "Withdraw Screen")
	return c.transact("withdraw", c.dir.Withdraw)
}

func (c *Console) transact(verb string, op func(string, float64) (storage.Client, error)) error {
	client, err := c.lookupUntilFound()
	if err != nil {
		return err
	}
	writeCard(c.out, client)

	amount, err := c.in.ReadFloat(fmt.Sprintf("Please enter %s amount? ", verb))
	if err != nil {
		return err
	}
	ok, err := c.in.Confirm("Are you sure you want to perform this transaction?")
	if err != nil || !ok {
		return err
	}
	updated, err := op(client.AccountNumber, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Done Successfully. New balance is: %s\n", money(updated.AccountBalance))
	return nil
}

// lookup 讀取帳號並載入客戶；不存在時回傳 bank.ErrNotFound。
func (c *Console) lookup() (storage.Client, error) {
	acct, err := c.in.ReadLine("Please enter Account Number? ")
	if err != nil {
		return storage.Client{}, err
	}
	return c.dir.Find(acct)
}

// lookupUntilFound 與 lookup 相同，但帳號不存在時重新詢問。
func (c *Console) lookupUntilFound() (storage.Client, error) {
	for {
		client, err := c.lookup()
		if !errors.Is(err, bank.ErrNotFound) {
			return client, err
		}
		c.in.Notify("Client does not exist, try again.")
	}
}
