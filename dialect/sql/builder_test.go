package sql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		table     string
		columns   []string
		conds     Conditions
		one       bool
		wantQuery string
		wantBinds Binds
	}{
		{
			name:      "all columns",
			table:     "users",
			wantQuery: "SELECT * FROM `users`",
		},
		{
			name:      "columns and conditions",
			table:     "users",
			columns:   []string{"id", "name"},
			conds:     Where("age:>", 18, "age:<", 65),
			wantQuery: "SELECT `id`, `name` FROM `users` WHERE `age` > :age AND `age` < :age2",
			wantBinds: Binds{{"age", 18}, {"age2", 65}},
		},
		{
			name:      "one",
			table:     "users",
			conds:     Where("id", 7),
			one:       true,
			wantQuery: "SELECT * FROM `users` WHERE `id` = :id LIMIT 1",
			wantBinds: Binds{{"id", 7}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			build := Select
			if tt.one {
				build = SelectOne
			}
			query, binds, err := build(tt.table, tt.columns, tt.conds)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantBinds, binds)
		})
	}

	_, _, err := Select("users`; --", nil, nil)
	require.Error(t, err)
	_, _, err = Select("users", []string{"id", "na me"}, nil)
	require.Error(t, err)
}

func TestInsert(t *testing.T) {
	query, binds, err := Insert("t", Set("a", 1, "b", Raw("NOW()")))
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `t` (`a`, `b`) VALUES (:a, NOW())", query)
	assert.Equal(t, Binds{{"a", 1}}, binds)

	query, binds, err = Insert("users", Set("name", "a8m", "age", 30, "nickname", nil))
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `users` (`name`, `age`, `nickname`) VALUES (:name, :age, :nickname)", query)
	assert.Equal(t, Binds{{"name", "a8m"}, {"age", 30}, {"nickname", nil}}, binds)

	_, _, err = Insert("users", Set("name", 1, "name", 2))
	require.Error(t, err)
}

func TestUpdate(t *testing.T) {
	t.Run("data and conditions", func(t *testing.T) {
		query, binds, err := Update("users", Set("name", "a8m", "updated_at", Raw("NOW()")), Where("id", 1))
		require.NoError(t, err)
		assert.Equal(t, "UPDATE `users` SET `name` = :name, `updated_at` = NOW() WHERE `id` = :id", query)
		assert.Equal(t, Binds{{"name", "a8m"}, {"id", 1}}, binds)
	})
	t.Run("condition on updated column", func(t *testing.T) {
		query, binds, err := Update("users", Set("id", 2, "name", "x"), Where("id", 1))
		require.NoError(t, err)
		assert.Equal(t, "UPDATE `users` SET `id` = :id, `name` = :name WHERE `id` = :id2", query)
		assert.Equal(t, Binds{{"id", 2}, {"name", "x"}, {"id2", 1}}, binds)
	})
	t.Run("without conditions", func(t *testing.T) {
		query, binds, err := Update("users", Set("active", false), nil)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE `users` SET `active` = :active", query)
		assert.Equal(t, Binds{{"active", false}}, binds)
	})
	t.Run("no data", func(t *testing.T) {
		_, _, err := Update("users", nil, Where("id", 1))
		require.Error(t, err)
	})
}

func TestDelete(t *testing.T) {
	query, binds, err := Delete("users", Where("id", 1, "name:LIKE", "a%"))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `users` WHERE `id` = :id AND `name` LIKE :name", query)
	assert.Equal(t, Binds{{"id", 1}, {"name", "a%"}}, binds)

	query, binds, err = Delete("users", nil)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `users`", query)
	assert.Empty(t, binds)
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "id", want: "`id`"},
		{in: "id desc", want: "`id` DESC"},
		{in: "age ASC, name DESC", want: "`age` ASC, `name` DESC"},
		{in: "users.id", want: "`users`.`id`"},
		{in: "id; DROP TABLE users", wantErr: true},
		{in: "id sideways", wantErr: true},
		{in: "", wantErr: true},
		{in: "id,", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := OrderBy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountQuery(t *testing.T) {
	query, err := CountQuery("  select * from `users` WHERE `age` > :age;  ")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM (select * from `users` WHERE `age` > :age) AS `record_count`", query)

	for _, base := range []string{"UPDATE users SET a = 1", "SELECTION", "", "DELETE FROM users WHERE 'SELECT'"} {
		_, err := CountQuery(base)
		require.Error(t, err, base)
		assert.True(t, errors.Is(err, ErrInvalidShape))
		var se *ShapeError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, base, se.Query)
	}
}

func TestPagedQuery(t *testing.T) {
	query, err := PagedQuery("SELECT * FROM `users`", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` LIMIT 2, 3", query)

	query, err = PagedQuery("Select\n`id` FROM `users`;", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "Select\n`id` FROM `users` LIMIT 0, 1", query)

	_, err = PagedQuery("INSERT INTO users VALUES (1)", 0, 10)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = PagedQuery("SELECT 1", -1, 10)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidShape))
}

func TestTrailingComment(t *testing.T) {
	query, err := CountQuery("SELECT * FROM `users` -- all users")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM (SELECT * FROM `users`) AS `record_count`", query)

	query, err = PagedQuery("SELECT * FROM `users`; -- all users\n", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` LIMIT 0, 10", query)

	query, err = PagedQuery("SELECT * -- columns\nFROM `users`", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * -- columns\nFROM `users` LIMIT 0, 10", query)

	for q, want := range map[string]int{
		"SELECT '--' FROM `users`":        -1,
		"SELECT 'it''s -- x'":             -1,
		"SELECT `a--b` FROM t":            -1,
		"SELECT 1 /* -- */":               -1,
		"SELECT 'a' -- note":              11,
		"SELECT \"x\\\" --\" -- trailing": 16,
	} {
		assert.Equal(t, want, trailingComment(q), q)
	}

	_, err = CountQuery("-- SELECT * FROM `users`")
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestMySQLAdapter(t *testing.T) {
	var a MySQL
	q1, b1, err1 := a.Select("users", nil, Where("id", 1))
	q2, b2, err2 := Select("users", nil, Where("id", 1))
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, q2, q1)
	assert.Equal(t, b2, b1)

	q, err := a.PagedQuery(q1, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` WHERE `id` = :id LIMIT 0, 5", q)
}
