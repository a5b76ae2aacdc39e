// internal/console/menu.go
//
// 本檔負責選單與 handler 的綁定。
// 與 handler.go 分離：
//   - handler.go 定義「每個畫面如何處理」
//   - menu.go 定義「選項如何被導向」
package console

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"bankrecords/internal/bank"
)

// route 為一個選單項目：顯示文字與對應的 handler。
// handler 為 nil 代表離開目前選單。
type route struct {
	label   string
	handler func() error
}

// mainRoutes 主選單：
//
//	[1] Show Clients   [2] Add New Client   [3] Delete Client
//	[4] Update Client  [5] Find Client      [6] Transactions   [7] Exit
func (c *Console) mainRoutes() []route {
	return []route{
		{"Show Client List.", c.ShowClients},
		{"Add New Client.", c.addClients},
		{"Delete Client.", c.deleteClient},
		{"Update Client Info.", c.updateClient},
		{"Find Client.", c.findClient},
		{"Transactions.", c.transactions},
		{"Exit.", nil},
	}
}

// transactionRoutes 交易選單：[1] Deposit [2] Withdraw [3] Total Balances [4] Main Menu
func (c *Console) transactionRoutes() []route {
	return []route{
		{"Deposit.", c.deposit},
		{"Withdraw.", c.withdraw},
		{"Total Balances.", c.ShowTotalBalances},
		{"Main Menu.", nil},
	}
}

// Run 顯示主選單直到使用者選擇離開或輸入結束。
// 單一操作的錯誤只會顯示在畫面上，不會中斷選單。
func (c *Console) Run() error {
	err := c.loop("Main Menu Screen", c.mainRoutes())
	if errors.Is(err, bank.ErrInputClosed) {
		err = nil
	}
	if err == nil {
		fmt.Fprintln(c.out, "\nProgram Ended.")
	}
	return err
}

func (c *Console) transactions() error {
	return c.loop("Transactions Menu Screen", c.transactionRoutes())
}

func (c *Console) loop(title string, routes []route) error {
	for {
		writeMenu(c.out, title, routes)
		choice, err := c.in.ReadChoice(fmt.Sprintf("Choose what do you want to do? [1 to %d]? ", len(routes)), 1, len(routes))
		if err != nil {
			return err
		}
		r := routes[choice-1]
		if r.handler == nil {
			return nil
		}
		if err := r.handler(); err != nil {
			if errors.Is(err, bank.ErrInputClosed) {
				return err
			}
			c.logger.Warn("menu action failed", zap.String("action", r.label), zap.Error(err))
			writeErr(c.out, err)
		}
	}
}
