package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNamed(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantText  string
		wantNames []string
	}{
		{
			name:     "no placeholders",
			in:       "SELECT 1",
			wantText: "SELECT 1",
		},
		{
			name:      "simple",
			in:        "SELECT * FROM `users` WHERE `id` = :id AND `age` > :age2",
			wantText:  "SELECT * FROM `users` WHERE `id` = ? AND `age` > ?",
			wantNames: []string{"id", "age2"},
		},
		{
			name:      "repeated name",
			in:        "SELECT :a, :a",
			wantText:  "SELECT ?, ?",
			wantNames: []string{"a", "a"},
		},
		{
			name:      "quoted literals",
			in:        `SELECT ':no', "x :no", ':it''s :no', 'a\':no' FROM t WHERE id = :id`,
			wantText:  `SELECT ':no', "x :no", ':it''s :no', 'a\':no' FROM t WHERE id = ?`,
			wantNames: []string{"id"},
		},
		{
			name:      "backtick identifier",
			in:        "SELECT `a:b` FROM `t` WHERE `x` = :x",
			wantText:  "SELECT `a:b` FROM `t` WHERE `x` = ?",
			wantNames: []string{"x"},
		},
		{
			name:      "cast and comments",
			in:        "SELECT id::text -- :skip\nFROM t /* :skip */ WHERE id = :id",
			wantText:  "SELECT id::text -- :skip\nFROM t /* :skip */ WHERE id = ?",
			wantNames: []string{"id"},
		},
		{
			name:     "colon not followed by a name",
			in:       "SELECT '10:30', 1 : 2",
			wantText: "SELECT '10:30', 1 : 2",
		},
		{
			name:      "underscore and digits",
			in:        "SELECT :_x1",
			wantText:  "SELECT ?",
			wantNames: []string{"_x1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseNamed(tt.in)
			assert.Equal(t, tt.wantText, got.text)
			assert.Equal(t, tt.wantNames, got.names)
		})
	}
}

func TestIsQuery(t *testing.T) {
	for _, q := range []string{
		"SELECT 1",
		"  select * from t",
		"(SELECT 1) UNION (SELECT 2)",
		"WITH x AS (SELECT 1) SELECT * FROM x",
		"SHOW TABLES",
		"PRAGMA table_info(t)",
		"EXPLAIN SELECT 1",
		"VALUES (1)",
	} {
		assert.True(t, isQuery(q), q)
	}
	for _, q := range []string{
		"INSERT INTO t VALUES (1)",
		"UPDATE t SET a = 1",
		"DELETE FROM t",
		"CREATE TABLE t (id int)",
		"SELECTED",
		"",
	} {
		assert.False(t, isQuery(q), q)
	}
}
