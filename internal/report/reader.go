package report

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ReadRows loads every row of a report file sorted by arrival rate. Blank
// lines are skipped.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report %s: %w", path, err)
	}
	defer f.Close()

	var rows []Row
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		row, err := ParseRow(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ArrivalRate < rows[j].ArrivalRate
	})
	return rows, nil
}
