// internal/bank/directory_test.go
//
// 本檔為 Directory 的單元與整合測試。
// 以 t.TempDir() 中的真實 FileStore 執行，驗證查詢、新增、刪除、更新、存提款與總餘額。

package bank

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankrecords/internal/storage"
)

// newDir 為小工具：建立以暫存檔為後端的 Directory。
func newDir(t *testing.T, seed ...storage.Client) (*Directory, *storage.FileStore) {
	t.Helper()
	fs := storage.NewFileStore(storage.Config{Path: filepath.Join(t.TempDir(), "Clients.txt")}, nil)
	d := NewDirectory(fs, nil)
	for _, c := range seed {
		require.NoError(t, d.AddClient(c))
	}
	return d, fs
}

func cl(acct string, bal float64) storage.Client {
	return storage.Client{AccountNumber: acct, PinCode: "0000", Name: "Client " + acct, Phone: "555", AccountBalance: bal}
}

func TestFindByAccountNumberEmpty(t *testing.T) {
	_, ok := FindByAccountNumber("X", nil)
	assert.False(t, ok)
	_, ok = FindByAccountNumber("X", []storage.Client{})
	assert.False(t, ok)
}

// TestFindByAccountNumberFirstMatch 驗證清單中有重複帳號時回傳第一筆。
func TestFindByAccountNumberFirstMatch(t *testing.T) {
	a := cl("A1", 1)
	dup := cl("A1", 2)
	got, ok := FindByAccountNumber("A1", []storage.Client{cl("A0", 0), a, dup})
	require.True(t, ok)
	assert.Equal(t, 1.0, got.AccountBalance)
}

func TestMarkForDeletion(t *testing.T) {
	clients := []storage.Client{cl("A1", 1), cl("A2", 2), cl("A3", 3)}
	entries, ok := MarkForDeletion("A2", clients)
	require.True(t, ok)
	require.Len(t, entries, 3)
	assert.False(t, entries[0].MarkedForDeletion)
	assert.True(t, entries[1].MarkedForDeletion)
	assert.False(t, entries[2].MarkedForDeletion)

	_, ok = MarkForDeletion("ZZ", clients)
	assert.False(t, ok)
}

func TestIsAccountNumberAvailable(t *testing.T) {
	d, _ := newDir(t, cl("A1", 1))

	ok, err := d.IsAccountNumberAvailable("A1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = d.IsAccountNumberAvailable("A2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.IsAccountNumberAvailable("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddClientRejectsDuplicateAndEmpty(t *testing.T) {
	d, _ := newDir(t, cl("A1", 1))

	assert.ErrorIs(t, d.AddClient(cl("A1", 5)), ErrAccountExists)
	assert.ErrorIs(t, d.AddClient(cl("", 5)), ErrEmptyAccountNumber)

	all, err := d.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListMissingFile(t *testing.T) {
	d, _ := newDir(t)
	all, err := d.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFind(t *testing.T) {
	d, _ := newDir(t, cl("A1", 1), cl("A2", 2))

	c, err := d.Find("A2")
	require.NoError(t, err)
	assert.Equal(t, "Client A2", c.Name)

	_, err = d.Find("A9")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestDeleteKeepsOrder 驗證刪除後其餘客戶維持原本順序。
func TestDeleteKeepsOrder(t *testing.T) {
	d, _ := newDir(t, cl("A1", 1), cl("A2", 2), cl("A3", 3))

	require.NoError(t, d.Delete("A2"))
	assert.ErrorIs(t, d.Delete("A2"), ErrNotFound)

	all, err := d.List()
	require.NoError(t, err)
	if diff := cmp.Diff([]storage.Client{cl("A1", 1), cl("A3", 3)}, all); diff != "" {
		t.Fatalf("after delete (-want +got):\n%s", diff)
	}
}

func TestUpdate(t *testing.T) {
	d, _ := newDir(t, cl("A1", 1), cl("A2", 2))

	upd := storage.Client{AccountNumber: "A1", PinCode: "9999", Name: "Renamed", Phone: "777", AccountBalance: 42}
	require.NoError(t, d.Update(upd))

	got, err := d.Find("A1")
	require.NoError(t, err)
	assert.Equal(t, upd, got)

	assert.ErrorIs(t, d.Update(cl("ZZ", 0)), ErrNotFound)
}

// TestDepositWithdraw 測試存款與提款，涵蓋正常路徑與錯誤條件（非法金額、餘額不足）。
func TestDepositWithdraw(t *testing.T) {
	d, _ := newDir(t, cl("A1", 100))

	c, err := d.Deposit("A1", 50.1)
	require.NoError(t, err)
	assert.InDelta(t, 150.1, c.AccountBalance, 1e-9)

	c, err = d.Withdraw("A1", 30.1)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, c.AccountBalance, 1e-9)

	got, err := d.Find("A1")
	require.NoError(t, err)
	assert.InDelta(t, 120.0, got.AccountBalance, 1e-6)

	for _, amt := range []float64{0, -5} {
		_, err = d.Deposit("A1", amt)
		assert.ErrorIs(t, err, ErrBadAmount)
		_, err = d.Withdraw("A1", amt)
		assert.ErrorIs(t, err, ErrBadAmount)
	}

	_, err = d.Withdraw("A1", 9999)
	assert.ErrorIs(t, err, ErrInsufficient)

	_, err = d.Deposit("ZZ", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	// 餘額不足時不應寫檔
	got, err = d.Find("A1")
	require.NoError(t, err)
	assert.InDelta(t, 120.0, got.AccountBalance, 1e-6)
}

func TestWithdrawWholeBalance(t *testing.T) {
	d, _ := newDir(t, cl("A1", 0.3))
	_, err := d.Withdraw("A1", 0.1)
	require.NoError(t, err)
	c, err := d.Withdraw("A1", 0.2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.AccountBalance)
}

func TestTotalBalances(t *testing.T) {
	d, _ := newDir(t)
	total, err := d.TotalBalances()
	require.NoError(t, err)
	assert.Zero(t, total)

	d, _ = newDir(t, cl("A1", 0.1), cl("A2", 0.2), cl("A3", 100))
	total, err = d.TotalBalances()
	require.NoError(t, err)
	assert.Equal(t, 100.3, total)
}

// TestConcurrentDepositsRaceSafety 驗證同行程內多個 goroutine 同時存款仍具資料一致性。
func TestConcurrentDepositsRaceSafety(t *testing.T) {
	d, _ := newDir(t, cl("A1", 0))

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := d.Deposit("A1", 1); err != nil {
				t.Errorf("deposit err: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := d.Find("A1")
	require.NoError(t, err)
	assert.Equal(t, float64(workers), got.AccountBalance)
}

// failingStore 模擬寫入失敗的後端，用於驗證錯誤會被回傳而非吞掉。
type failingStore struct {
	clients []storage.Client
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) Exists(string) (bool, error) { return false, nil }
func (f *failingStore) LoadAll() ([]storage.Client, error) { return f.clients, nil }
func (f *failingStore) SaveAll([]storage.Entry) error { return errDiskFull }
func (f *failingStore) AppendLine(string) error { return errDiskFull }

func TestWriteFailuresPropagate(t *testing.T) {
	d := NewDirectory(&failingStore{clients: []storage.Client{cl("A1", 10)}}, nil)

	assert.ErrorIs(t, d.AddClient(cl("A2", 1)), errDiskFull)
	assert.ErrorIs(t, d.Delete("A1"), errDiskFull)
	assert.ErrorIs(t, d.Update(cl("A1", 3)), errDiskFull)
	_, err := d.Deposit("A1", 1)
	assert.ErrorIs(t, err, errDiskFull)
}

func TestParseErrorPropagates(t *testing.T) {
	d, fs := newDir(t)
	require.NoError(t, fs.AppendLine("not#//#a#//#record"))

	_, err := d.List()
	var pe *storage.ParseError
	assert.ErrorAs(t, err, &pe)

	_, err = d.IsAccountNumberAvailable("X")
	assert.ErrorAs(t, err, &pe)
}

// TestAddClientRejectsUnencodable 驗證空白欄位的客戶不會被寫入，檔案仍可正常讀取。
func TestAddClientRejectsUnencodable(t *testing.T) {
	d, fs := newDir(t, cl("A1", 1))

	blankPin := cl("A2", 2)
	blankPin.PinCode = ""
	assert.ErrorIs(t, d.AddClient(blankPin), ErrUnencodable)

	blankName := cl("A1", 1)
	blankName.Name = ""
	assert.ErrorIs(t, d.Update(blankName), ErrUnencodable)

	got, err := fs.LoadAll()
	require.NoError(t, err)
	if diff := cmp.Diff([]storage.Client{cl("A1", 1)}, got); diff != "" {
		t.Fatalf("store changed (-want +got):\n%s", diff)
	}
}

func TestSumBalances(t *testing.T) {
	assert.Zero(t, SumBalances(nil))
	assert.Equal(t, 0.3, SumBalances([]storage.Client{cl("A1", 0.1), cl("A2", 0.2)}))
}

// seedRaw 直接寫入 A1、A2（姓名長度為 nameLen）、A3 三行。
func seedRaw(t *testing.T, fs *storage.FileStore, nameLen int) storage.Client {
	t.Helper()
	long := cl("A2", 2)
	long.Name = strings.Repeat("x", nameLen)
	lines := []string{storage.Encode(cl("A1", 1)), storage.Encode(long), storage.Encode(cl("A3", 3))}
	require.NoError(t, os.WriteFile(fs.Path(), []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return long
}

// TestDeleteWithLongLineKeepsOthers 驗證超過 64 KiB 的行不影響刪除其他客戶。
func TestDeleteWithLongLineKeepsOthers(t *testing.T) {
	d, fs := newDir(t)
	long := seedRaw(t, fs, 70*1024)

	ok, err := d.IsAccountNumberAvailable("A3")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Delete("A1"))

	got, err := fs.LoadAll()
	require.NoError(t, err)
	if diff := cmp.Diff([]storage.Client{long, cl("A3", 3)}, got); diff != "" {
		t.Fatalf("after delete (-want +got):\n%s", diff)
	}
}

// TestReadFailureBlocksWrites 驗證讀取中斷時不會以殘缺清單覆寫檔案。
func TestReadFailureBlocksWrites(t *testing.T) {
	d, fs := newDir(t)
	seedRaw(t, fs, storage.MaxLineSize+1)
	before, err := os.ReadFile(fs.Path())
	require.NoError(t, err)

	_, err = d.List()
	assert.ErrorIs(t, err, bufio.ErrTooLong)

	_, err = d.IsAccountNumberAvailable("A3")
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.ErrorIs(t, d.AddClient(cl("A3", 3)), bufio.ErrTooLong)

	assert.ErrorIs(t, d.Delete("A1"), bufio.ErrTooLong)
	_, err = d.Deposit("A1", 5)
	assert.ErrorIs(t, err, bufio.ErrTooLong)

	after, err := os.ReadFile(fs.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
