package inventory

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/topiclens/internal/domain/record"
)

// Dataset column headers. These match the operator-exported CSV files.
const (
	colOwner    = "Project"
	colTopic    = "Topic_Name_Kafka"
	colGroup    = "Consumer_Group_Id"
	colUserID   = "User_ID"
	colPassword = "Password"
)

// table is one parsed CSV file with header-indexed column access.
type table struct {
	columns map[string]int
	rows    [][]string
}

func readTable(path string, required ...string) (*table, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // validated per-column below

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[name] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, name)
		}
	}

	return &table{columns: columns, rows: records[1:]}, nil
}

// get returns the named column of a row, or "" when the row is short.
func (t *table) get(row []string, column string) string {
	idx := t.columns[column]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func readTopics(path string) ([]record.Topic, error) {
	t, err := readTable(path, colOwner, colTopic)
	if err != nil {
		return nil, err
	}
	topics := make([]record.Topic, 0, len(t.rows))
	for _, row := range t.rows {
		topics = append(topics, record.Topic{
			Owner: t.get(row, colOwner),
			Topic: t.get(row, colTopic),
		})
	}
	return topics, nil
}

func readConsumers(path string) ([]record.Consumer, error) {
	t, err := readTable(path, colOwner, colTopic, colGroup)
	if err != nil {
		return nil, err
	}
	consumers := make([]record.Consumer, 0, len(t.rows))
	for _, row := range t.rows {
		consumers = append(consumers, record.Consumer{
			Owner: t.get(row, colOwner),
			Topic: t.get(row, colTopic),
			Group: t.get(row, colGroup),
		})
	}
	return consumers, nil
}

func readUsers(path string) ([]record.User, error) {
	t, err := readTable(path, colUserID, colPassword)
	if err != nil {
		return nil, err
	}
	users := make([]record.User, 0, len(t.rows))
	for _, row := range t.rows {
		users = append(users, record.User{
			ID:       t.get(row, colUserID),
			Password: t.get(row, colPassword),
		})
	}
	return users, nil
}
