// internal/storage/filestore.go
//
// 以純文字檔保存客戶資料的 File Store，一行一位客戶。
// 每次呼叫都獨立開檔、關檔，不保留任何長期 file handle。
//
// ───────────────────────────────
// 行為約定：
// - **讀取路徑 (Exists / LoadAll)**：檔案不存在或無法開啟時回傳空結果，不視為錯誤；
//   但開檔後讀到一半失敗（含單行超過 MaxLineSize）一律回傳 error，避免以殘缺清單整檔寫回。
// - **寫入路徑 (SaveAll / AppendLine)**：失敗一律回傳 error，呼叫端可得知寫入遺失。
// - **整檔覆寫**：SaveAll 採「原子寫入」策略，先寫 .tmp 再以 rename() 取代原檔。
// - **解析錯誤**：格式錯誤的行以 *ParseError 回報，而非讓程式崩潰。
// ───────────────────────────────
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// MaxLineSize 為單行資料的長度上限（位元組）。
const MaxLineSize = 1 << 20

// FileStore 為檔案後端的客戶資料存取層。
// mu 只序列化同一行程內的呼叫；跨行程同時存取同一檔案不受保護。
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewFileStore 依設定建立 FileStore；logger 可為 nil。
func NewFileStore(cfg Config, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: cfg.path(), logger: logger}
}

// Path 回傳資料檔路徑。
func (s *FileStore) Path() string { return s.path }

// Exists 回報檔案中是否有指定帳號的客戶，找到第一筆即返回。
func (s *FileStore) Exists(accountNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := s.scan(func(c Client) bool {
		if c.AccountNumber == accountNumber {
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// LoadAll 依檔案順序讀出所有客戶。
// 檔案不存在時回傳空切片與 nil。
func (s *FileStore) LoadAll() ([]Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := []Client{}
	err := s.scan(func(c Client) bool {
		clients = append(clients, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("clients loaded", zap.String("path", s.path), zap.Int("count", len(clients)))
	return clients, nil
}

// SaveAll 以 entries 取代整個檔案內容，略過 MarkedForDeletion 為 true 的項目。
// 流程：
//  1. 寫入 path+".tmp" 暫存檔。
//  2. Flush 並關閉暫存檔。
//  3. 使用 os.Rename() 取代正式檔案。
func (s *FileStore) SaveAll(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	w := bufio.NewWriter(f)
	kept := 0
	for _, e := range entries {
		if e.MarkedForDeletion {
			continue
		}
		if _, err := w.WriteString(Encode(e.Client) + "\n"); err != nil {
			f.Close()
			_ = os.Remove(tmp)
			return fmt.Errorf("write %s: %w", tmp, err)
		}
		kept++
	}
	if err := w.Flush(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("flush %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	// 原子替換
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	s.logger.Debug("clients saved",
		zap.String("path", s.path),
		zap.Int("kept", kept),
		zap.Int("dropped", len(entries)-kept))
	return nil
}

// AppendLine 在檔案尾端附加一行（自動補上換行），檔案不存在時會建立。
// 不檢查帳號是否重複，呼叫端需自行先確認。
func (s *FileStore) AppendLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	s.logger.Debug("line appended", zap.String("path", s.path))
	return nil
}

// scan 逐行解碼並交給 fn；fn 回傳 false 時提前結束。
// 開檔失敗會被吸收（只記錄日誌）；解析失敗回傳帶行號的 *ParseError，讀取中斷則回傳包裝後的 error。
func (s *FileStore) scan(fn func(Client) bool) error {
	f, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("store not readable, treating as empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		c, err := Decode(line)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.LineNo = lineNo
			}
			s.logger.Error("malformed client line",
				zap.String("path", s.path), zap.Int("line", lineNo), zap.Error(err))
			return err
		}
		if !fn(c) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		s.logger.Error("store read interrupted",
			zap.String("path", s.path), zap.Int("after_line", lineNo), zap.Error(err))
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	return nil
}
