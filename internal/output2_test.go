package internal

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout() Layout {
	return Layout{
		Noun:       "widgets",
		FilePrefix: "widget_list",
		CSVColumns: []Column{
			{Header: "Name", Field: "name"},
			{Header: "Account", Field: "account"},
			{Header: "Notes", Field: "notes"},
		},
		TableColumns: []Column{
			{Header: "Name", Field: "name", Fraction: 0.5},
			{Header: "Account", Field: "account", Fraction: 0.3},
			{Header: "Notes", Field: "notes", Fraction: 0.2},
		},
		TableStyle: "plain",
		Compare:    CompareFields("account", "name"),
	}
}

func testCollection() *Collection {
	c := NewCollection("widgets")
	c.Put(NewRecord(NewKey("b", "222", "us-east-1")).Set("name", "b").Set("account", "222").Set("notes", "has, comma"))
	c.Put(NewRecord(NewKey("a", "333", "us-east-1")).Set("name", "a").Set("account", "333").Set("notes", nil))
	c.Put(NewRecord(NewKey("c", "111", "us-west-2")).Set("name", "c").Set("account", "111").Set("notes", "plain"))
	return c
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]string{"json": FormatJSON, "CSV": FormatCSV, " Json ": FormatJSON} {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOutputFormat("yaml")
	assert.Error(t, err)
}

func TestRenderJSON(t *testing.T) {
	c := NewCollection("widgets")
	c.Put(NewRecord(NewKey("b", "1", "us-east-1")).Set("name", "b").Set("n", 2))
	c.Put(NewRecord(NewKey("a", "1", "us-east-1")).Set("name", "a").Set("tags", map[string]string{"k": "v"}))

	var first, second bytes.Buffer
	require.NoError(t, RenderJSON(&first, c))
	require.NoError(t, RenderJSON(&second, c))
	assert.Equal(t, first.String(), second.String())

	want := `{
    "a_1_us-east-1": {
        "name": "a",
        "tags": {
            "k": "v"
        }
    },
    "b_1_us-east-1": {
        "name": "b",
        "n": 2
    }
}
`
	assert.Equal(t, want, first.String())
}

func TestRenderJSONDuplicateKey(t *testing.T) {
	c := NewCollection("widgets")
	c.Put(NewRecord(NewKey("a_b", "c", "d")).Set("name", "first"))
	c.Put(NewRecord(NewKey("a", "b_c", "d")).Set("name", "second"))

	var buf bytes.Buffer
	err := RenderJSON(&buf, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a_b_c_d")
	assert.Empty(t, buf.String())
}

func TestRenderJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, NewCollection("widgets")))
	assert.Equal(t, "{}\n", buf.String())
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, testCollection(), testLayout()))
	want := "Name,Account,Notes\n" +
		"c,111,plain\n" +
		"b,222,\"has, comma\"\n" +
		"a,333,\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderCSVQuoteAll(t *testing.T) {
	layout := testLayout()
	layout.QuoteAll = true
	c := NewCollection("widgets")
	c.Put(NewRecord(NewKey("a", "1", "us-east-1")).Set("name", `say "hi"`).Set("account", "1"))

	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, c, layout))
	want := `"Name","Account","Notes"` + "\n" +
		`"say ""hi""","1",""` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestTruncate(t *testing.T) {
	subtests := []struct {
		name   string
		in     string
		budget int
		want   string
	}{
		{name: "fits", in: "short", budget: 10, want: "short"},
		{name: "exact", in: "exact", budget: 5, want: "exact"},
		{name: "cut", in: "a-very-long-bucket-name", budget: 10, want: "a-very-..."},
		{name: "tiny budget", in: "abcdef", budget: 2, want: "ab"},
		{name: "multibyte", in: "ééééééééé", budget: 5, want: "éé..."},
		{name: "zero budget", in: "abc", budget: 0, want: ""},
	}

	for _, subtest := range subtests {
		t.Run(subtest.name, func(t *testing.T) {
			got := Truncate(subtest.in, subtest.budget)
			assert.Equal(t, subtest.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), max(subtest.budget, 0))
		})
	}
}

func TestWrap(t *testing.T) {
	inputs := []string{
		"i-0123456789abcdef0",
		"a name with several words in it",
		"line one\nline two that is rather long",
		"ünïcödé-ünïcödé-ünïcödé",
		"",
	}
	for _, in := range inputs {
		for _, budget := range []int{1, 4, 7, 50} {
			got := Wrap(in, budget)
			for _, line := range strings.Split(got, "\n") {
				assert.LessOrEqual(t, utf8.RuneCountInString(line), budget, "line %q of %q", line, in)
			}
			assert.Equal(t, strings.ReplaceAll(in, "\n", ""), strings.ReplaceAll(got, "\n", ""))
		}
	}
}

func TestColumnBudgets(t *testing.T) {
	columns := testLayout().TableColumns
	budgets := ColumnBudgets(80, columns)
	assert.Equal(t, []int{35, 21, 14}, budgets)

	// Fractions above one are scaled into the usable width.
	over := []Column{{Fraction: 0.5}, {Fraction: 0.5}, {Fraction: 0.3}, {Fraction: 0.2}}
	total := 0
	for _, b := range ColumnBudgets(80, over) {
		total += b
	}
	assert.LessOrEqual(t, total, 80-3*len(over)-1)

	for _, b := range ColumnBudgets(2, columns) {
		assert.GreaterOrEqual(t, b, 1)
	}
}

func TestRenderTable(t *testing.T) {
	for _, style := range TableStyles {
		t.Run(style, func(t *testing.T) {
			var buf bytes.Buffer
			err := RenderTable(&buf, testCollection(), testLayout(), TableOptions{Style: style, Width: 100})
			require.NoError(t, err)
			out := buf.String()
			assert.Contains(t, out, "Name")
			assert.Contains(t, out, "Account")
			assert.Contains(t, out, "has, comma")
		})
	}

	var buf bytes.Buffer
	assert.Error(t, RenderTable(&buf, testCollection(), testLayout(), TableOptions{Style: "html"}))
}

func TestRenderTableTruncates(t *testing.T) {
	c := NewCollection("widgets")
	c.Put(NewRecord(NewKey("x", "1", "us-east-1")).Set("name", strings.Repeat("x", 200)).Set("account", "1"))

	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, c, testLayout(), TableOptions{Style: "plain", Width: 60, Overflow: OverflowTruncate}))
	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", 100))
}

func TestRenderTableKeepsFittedCells(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 18))
	c := NewCollection("widgets")
	c.Put(NewRecord(NewKey("x", "1", "us-east-1")).Set("name", long).Set("account", "1"))

	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, c, testLayout(), TableOptions{Style: "plain", Width: 200}))
	assert.Contains(t, buf.String(), long)
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 200)
	}
}

func TestDeliver(t *testing.T) {
	MockFileSystem(true)
	defer MockFileSystem(false)
	require.NoError(t, fileSystem.MkdirAll("/out", 0755))

	t.Run("dry run writes nothing", func(t *testing.T) {
		var console bytes.Buffer
		err := Deliver(testCollection(), nil, testLayout(), OutputConfig{
			Path:    "/out/dry.csv",
			Format:  FormatCSV,
			DryRun:  true,
			Table:   TableOptions{Width: 100},
			Console: &console,
		})
		require.NoError(t, err)
		assert.Contains(t, console.String(), "has, comma")
		exists, _ := afero.Exists(fileSystem, "/out/dry.csv")
		assert.False(t, exists)
	})

	t.Run("dry run json", func(t *testing.T) {
		var console bytes.Buffer
		err := Deliver(testCollection(), nil, testLayout(), OutputConfig{Format: FormatJSON, DryRun: true, Console: &console})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(console.String(), "{\n    \"a_333_us-east-1\""))
	})

	t.Run("empty collection writes nothing", func(t *testing.T) {
		outcomes := []CellOutcome{{Status: OutcomeFailed}}
		err := Deliver(NewCollection("widgets"), outcomes, testLayout(), OutputConfig{Path: "/out/empty.csv", Format: FormatCSV})
		require.NoError(t, err)
		exists, _ := afero.Exists(fileSystem, "/out/empty.csv")
		assert.False(t, exists)
	})

	t.Run("writes artifact", func(t *testing.T) {
		err := Deliver(testCollection(), nil, testLayout(), OutputConfig{Path: "/out/widgets.csv", Format: FormatCSV})
		require.NoError(t, err)
		data, err := afero.ReadFile(fileSystem, "/out/widgets.csv")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "Name,Account,Notes\n"))
	})
}

func TestWriteArtifactFailure(t *testing.T) {
	fileSystem = afero.NewReadOnlyFs(afero.NewMemMapFs())
	defer MockFileSystem(false)

	err := WriteArtifact("/out/widgets.json", FormatJSON, testCollection(), testLayout())
	assert.Error(t, err)
}
