package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		delimiter rune
		want      [][]string
	}{
		{
			name:      "Simple records",
			text:      "a,b\n1,2\n",
			delimiter: ',',
			want:      [][]string{{"a", "b"}, {"1", "2"}, {""}},
		},
		{
			name:      "No trailing newline flushes last record",
			text:      "a,b\n1,2",
			delimiter: ',',
			want:      [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:      "CRLF line endings",
			text:      "a,b\r\n1,2\r\n",
			delimiter: ',',
			want:      [][]string{{"a", "b"}, {"1", "2"}, {""}},
		},
		{
			name:      "Quoted delimiter newline and doubled quote",
			text:      "a\n\"x, \"\"y\"\"\nz\"",
			delimiter: ',',
			want:      [][]string{{"a"}, {"x, \"y\"\nz"}},
		},
		{
			name:      "Carriage return kept inside quotes",
			text:      "\"a\r\nb\"",
			delimiter: ',',
			want:      [][]string{{"a\r\nb"}},
		},
		{
			name:      "Unterminated quote runs to end of input",
			text:      "a,\"b\nc,d",
			delimiter: ',',
			want:      [][]string{{"a", "b\nc,d"}},
		},
		{
			name:      "Stray quote toggles quoted mode",
			text:      "ab\"c,d\"e,f",
			delimiter: ',',
			want:      [][]string{{"abc,de", "f"}},
		},
		{
			name:      "Empty fields",
			text:      ",,",
			delimiter: ',',
			want:      [][]string{{"", "", ""}},
		},
		{
			name:      "Empty input",
			text:      "",
			delimiter: ',',
			want:      [][]string{{""}},
		},
		{
			name:      "Semicolon delimiter",
			text:      "a;b,c",
			delimiter: ';',
			want:      [][]string{{"a", "b,c"}},
		},
		{
			name:      "Multibyte characters",
			text:      "titre,résumé\nÉcole,«ville»",
			delimiter: ',',
			want:      [][]string{{"titre", "résumé"}, {"École", "«ville»"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Tokenize(tt.text, tt.delimiter))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("One row per data record with the full key set", func(t *testing.T) {
		t.Parallel()

		text := "ID,Title,Highlight\n1,First,true\n2,Second\n3,Third,false,extra\n"
		rows := Parse(text)

		require.Len(t, rows, 3)
		for _, row := range rows {
			assert.Equal(t, []string{"ID", "Title", "Highlight"}, row.Keys())
		}
		assert.Equal(t, "true", rows[0].Get("Highlight"))
		assert.Empty(t, rows[1].Get("Highlight"))
		assert.Equal(t, []string{"3", "Third", "false", "extra"}, rows[2].Fields())
	})

	t.Run("Blank records are dropped", func(t *testing.T) {
		t.Parallel()

		rows := Parse("ID,Title\n\n1,A\n , \n\n2,B\n\n")

		require.Len(t, rows, 2)
		assert.Equal(t, "A", rows[0].Get("Title"))
		assert.Equal(t, "B", rows[1].Get("Title"))
	})

	t.Run("Header cells are trimmed", func(t *testing.T) {
		t.Parallel()

		rows := Parse(" ID , Title \n1,A")

		require.Len(t, rows, 1)
		assert.Equal(t, "1", rows[0].Get("ID"))
		assert.Equal(t, "A", rows[0].Get("Title"))
	})

	t.Run("Byte order mark before the header", func(t *testing.T) {
		t.Parallel()

		rows := Parse("\ufeffID,Title\n1,A\n")

		require.Len(t, rows, 1)
		assert.Equal(t, "1", rows[0].Get("ID"))
		assert.Equal(t, "1", Project(rows[0]).ID)
	})

	t.Run("Duplicate header names resolve to the last column", func(t *testing.T) {
		t.Parallel()

		rows := Parse("ID,ID\n1,2")

		require.Len(t, rows, 1)
		assert.Equal(t, "2", rows[0].Get("ID"))
	})

	t.Run("Quoted field round trips", func(t *testing.T) {
		t.Parallel()

		original := "Paris, \"la ville\"\nlumière"
		quoted := `"` + strings.ReplaceAll(original, `"`, `""`) + `"`
		rows := Parse("ID,Abstract\n1," + quoted + "\n")

		require.Len(t, rows, 1)
		assert.Equal(t, original, rows[0].Get("Abstract"))
	})

	t.Run("Empty and header-only input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, Parse(""))
		assert.Empty(t, Parse("ID,Title\n"))
	})
}

func TestParseDelimited(t *testing.T) {
	t.Parallel()

	rows := ParseDelimited("ID\tTitle\n1\tA, B\n", '\t')

	require.Len(t, rows, 1)
	assert.Equal(t, "A, B", rows[0].Get("Title"))
}
