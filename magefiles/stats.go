//go:build mage

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// skipDirs are never counted.
var skipDirs = map[string]bool{
	".git":      true,
	"vendor":    true,
	binaryDir:   true,
	"magefiles": true,
}

// Stats prints Go lines of code and documentation word counts as one JSON
// record.
func Stats() error {
	var prodLines, testLines int

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[path] || strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		count, countErr := countLines(path)
		if countErr != nil {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") {
			testLines += count
		} else {
			prodLines += count
		}
		return nil
	})
	if err != nil {
		return err
	}

	docWords, err := countWordsInGlob("*.md")
	if err != nil {
		return err
	}
	sqlLines, err := countLinesInGlob("internal/sqlite/migrations/*.sql")
	if err != nil {
		return err
	}

	record := map[string]int{
		"go_loc_prod": prodLines,
		"go_loc_test": testLines,
		"go_loc":      prodLines + testLines,
		"sql_loc":     sqlLines,
		"doc_wc":      docWords,
	}
	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	fmt.Println(string(line))
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}

func countLinesInGlob(pattern string) (int, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, path := range matches {
		n, lineErr := countLines(path)
		if lineErr != nil {
			continue
		}
		total += n
	}
	return total, nil
}

func countWordsInGlob(pattern string) (int, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, path := range matches {
		words, wordErr := countWordsInFile(path)
		if wordErr != nil {
			continue
		}
		total += words
	}
	return total, nil
}

func countWordsInFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	count := 0
	inWord := false
	for _, r := range string(data) {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			count++
		}
	}
	return count, nil
}
