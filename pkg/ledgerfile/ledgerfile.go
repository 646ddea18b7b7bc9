// Package ledgerfile 處理帳本文字檔的輸出與比對
package ledgerfile

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// rw-r--r-- (擁有者讀寫，其他人唯讀)
const FileModeReadOnly fs.FileMode = 0644

// Write 將表頭與交易紀錄寫入檔案，一行一筆
// O_TRUNC 會覆蓋既有內容
// 檔案在函式內開啟與關閉，Flush / Close 失敗都會回傳
func Write(path string, header []string, lines []string) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileModeReadOnly)
	if err != nil {
		return fmt.Errorf("open ledger file %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close ledger file %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(file)
	for _, block := range [][]string{header, lines} {
		for _, line := range block {
			if _, err := w.WriteString(line + "\n"); err != nil {
				return fmt.Errorf("write ledger file %s: %w", path, err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush ledger file %s: %w", path, err)
	}
	return nil
}

// Equivalent 以空白切詞比對兩個檔案，忽略換行與空白數量的差異
func Equivalent(p1, p2 string) (bool, error) {
	a, err := os.ReadFile(p1)
	if err != nil {
		return false, err
	}
	b, err := os.ReadFile(p2)
	if err != nil {
		return false, err
	}

	ta, tb := strings.Fields(string(a)), strings.Fields(string(b))
	if len(ta) != len(tb) {
		return false, nil
	}
	for i := range ta {
		if ta[i] != tb[i] {
			return false, nil
		}
	}
	return true, nil
}
