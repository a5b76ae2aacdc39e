// internal/storage/model.go
//
// 定義「資料持久化層 (storage layer)」的結構模型。
// 該層只描述客戶資料在檔案中的樣子，不涉入任何選單或商業規則。
//
// ───────────────────────────────
// 設計理念：
// - **關注分離**：此層僅定義資料結構與序列化，不涉入商業邏輯。
// - **暫態標記**：刪除標記 (MarkedForDeletion) 只存在於記憶體，永不寫入檔案。
// - **明確設定**：檔案路徑由 Config 注入，不使用全域常數。
// ───────────────────────────────
package storage

// DefaultPath 為未指定路徑時使用的資料檔，相對於目前工作目錄。
const DefaultPath = "Clients.txt"

// Config 為 FileStore 的建構設定。
type Config struct {
	Path string `yaml:"path"` // 資料檔路徑；空字串代表 DefaultPath
}

// path 回傳實際使用的檔案路徑。
func (c Config) path() string {
	if c.Path == "" {
		return DefaultPath
	}
	return c.Path
}

// Client 為單一客戶在檔案中的一行資料。
// 欄位順序即為序列化順序：帳號、PIN、姓名、電話、餘額。
type Client struct {
	AccountNumber  string // 唯一鍵
	PinCode        string
	Name           string
	Phone          string
	AccountBalance float64
}

// Entry 為「客戶 + 刪除標記」的配對。
// 由上層 (bank) 產生後交給 SaveAll；被標記的項目在寫檔時會被略過。
type Entry struct {
	Client
	MarkedForDeletion bool
}

// Entries 將客戶切片包裝為未標記刪除的 Entry 切片，順序不變。
func Entries(clients []Client) []Entry {
	out := make([]Entry, len(clients))
	for i, c := range clients {
		out[i] = Entry{Client: c}
	}
	return out
}
