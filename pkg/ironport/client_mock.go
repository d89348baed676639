package ironport

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// MockClient is a Client serving values from memory, used in tests.
type MockClient struct {
	Values map[string]interface{} // oid -> value
	Err    error                  // returned by every request if set
	Calls  int                    // number of Get and Walk calls
}

// Get returns the stored values.
func (m *MockClient) Get(_ context.Context, oids ...string) ([]interface{}, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	values := make([]interface{}, 0, len(oids))
	for _, oid := range oids {
		val, ok := m.Values[oid]
		if !ok {
			return nil, fmt.Errorf("no value for %s: NoSuchObject", oid)
		}
		values = append(values, val)
	}

	return values, nil
}

// Walk returns all stored values below rootOid, sorted by the last oid element.
func (m *MockClient) Walk(_ context.Context, rootOid string) ([]interface{}, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	prefix := rootOid + "."
	oids := []string{}
	for oid := range m.Values {
		if strings.HasPrefix(oid, prefix) {
			oids = append(oids, oid)
		}
	}
	sort.Slice(oids, func(i, j int) bool {
		a, b := strings.TrimPrefix(oids[i], prefix), strings.TrimPrefix(oids[j], prefix)
		if len(a) != len(b) {
			return len(a) < len(b)
		}

		return a < b
	})
	values := make([]interface{}, 0, len(oids))
	for _, oid := range oids {
		values = append(values, m.Values[oid])
	}

	return values, nil
}

// Close does nothing.
func (m *MockClient) Close() error {
	return nil
}

// NewMockTable returns oid values for a table column, instance numbers start at 1.
func NewMockTable(rootOid string, values ...interface{}) map[string]interface{} {
	table := make(map[string]interface{}, len(values))
	for i, val := range values {
		table[fmt.Sprintf("%s.%d", rootOid, i+1)] = val
	}

	return table
}
