// internal/console/render.go
//
// 本檔負責統一畫面輸出格式：客戶清單表格、客戶卡片與餘額表。
// 所有畫面都透過這裡輸出，handler 只負責流程。
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"bankrecords/internal/storage"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
)

func writeTitle(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(title))
}

// writeMenu 輸出選單標題與編號選項。
func writeMenu(w io.Writer, title string, routes []route) {
	fmt.Fprintln(w, "\n===========================================")
	fmt.Fprintln(w, titleStyle.Render("\t\t"+title))
	fmt.Fprintln(w, "===========================================")
	for i, r := range routes {
		fmt.Fprintf(w, "\t[%d] %s\n", i+1, r.label)
	}
	fmt.Fprintln(w, "===========================================")
}

// writeClients 輸出完整的客戶清單表格。
func writeClients(w io.Writer, clients []storage.Client) {
	writeTitle(w, fmt.Sprintf("Client List (%d) Client(s).", len(clients)))
	if len(clients) == 0 {
		fmt.Fprintln(w, "No Clients Available In the System!")
		return
	}
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{c.AccountNumber, c.PinCode, c.Name, c.Phone, money(c.AccountBalance)})
	}
	writeTable(w, []string{"Account Number", "Pin Code", "Client Name", "Phone", "Balance"}, rows)
}

// writeBalances 輸出餘額表與總額。
func writeBalances(w io.Writer, clients []storage.Client, total float64) {
	writeTitle(w, fmt.Sprintf("Balances List (%d) Client(s).", len(clients)))
	if len(clients) == 0 {
		fmt.Fprintln(w, "No Clients Available In the System!")
	} else {
		rows := make([][]string, 0, len(clients))
		for _, c := range clients {
			rows = append(rows, []string{c.AccountNumber, c.Name, money(c.AccountBalance)})
		}
		writeTable(w, []string{"Account Number", "Client Name", "Balance"}, rows)
	}
	fmt.Fprintf(w, "Total Balances = %s\n", money(total))
}

func writeTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

// writeCard 輸出單一客戶的詳細資料。
func writeCard(w io.Writer, c storage.Client) {
	body := fmt.Sprintf("Account Number : %s\nPin Code       : %s\nName           : %s\nPhone          : %s\nAccount Balance: %s",
		c.AccountNumber, c.PinCode, c.Name, c.Phone, money(c.AccountBalance))
	fmt.Fprintln(w, "The following are the client details:")
	fmt.Fprintln(w, cardStyle.Render(body))
}

func writeErr(w io.Writer, err error) {
	fmt.Fprintln(w, errStyle.Render("Error: "+err.Error()))
}

// money 以兩位小數顯示金額；餘額在解碼與輸入時已確保為有限數字。
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
