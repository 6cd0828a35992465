package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCSV_HeadersAndQuotedComma(t *testing.T) {
	headers, rows := ParseCSV("a,b\n1,\"x,y\"\n")
	require.Equal(t, []string{"a", "b"}, headers)
	require.Len(t, rows, 1)
	require.Equal(t, "1", rows[0].Get("a"))
	require.Equal(t, "x,y", rows[0].Get("b"))
}

func TestParseCSV_EscapedQuote(t *testing.T) {
	headers, rows := ParseCSV("h\n\"say \"\"hi\"\"\"\n")
	require.Equal(t, []string{"h"}, headers)
	require.Len(t, rows, 1)
	require.Equal(t, `say "hi"`, rows[0].Get("h"))
}

func TestParseCSV_QuotedNewline(t *testing.T) {
	_, rows := ParseCSV("note\n\"line1\nline2\"\n")
	require.Len(t, rows, 1)
	require.Equal(t, "line1\nline2", rows[0].Get("note"))
}

func TestParseCSV_CRLFRows(t *testing.T) {
	headers, rows := ParseCSV("a,b\r\n1,2\r\n3,4\r\n")
	require.Equal(t, []string{"a", "b"}, headers)
	require.Len(t, rows, 2)
	require.Equal(t, "4", rows[1].Get("b"))
}

func TestParseCSV_ShortAndLongRows(t *testing.T) {
	_, rows := ParseCSV("a,b,c\n1\n1,2,3,4\n")
	require.Len(t, rows, 2)
	// Short row fills missing trailing fields with empty string.
	require.Equal(t, "1", rows[0].Get("a"))
	require.Equal(t, "", rows[0].Get("b"))
	require.Equal(t, "", rows[0].Get("c"))
	// Extra values beyond the header length are dropped.
	require.Equal(t, "3", rows[1].Get("c"))
}

func TestParseCSV_TrailingResidueWithoutNewline(t *testing.T) {
	_, rows := ParseCSV("a,b\n1,2")
	require.Len(t, rows, 1)
	require.Equal(t, "2", rows[0].Get("b"))
}

func TestParseCSV_UnterminatedQuoteIsImplicitlyClosed(t *testing.T) {
	_, rows := ParseCSV("a\n\"open")
	require.Len(t, rows, 1)
	require.Equal(t, "open", rows[0].Get("a"))
}

func TestParseCSV_EmptyInput(t *testing.T) {
	headers, rows := ParseCSV("")
	require.Empty(t, headers)
	require.Empty(t, rows)
}

func TestParseCSV_FieldsAreTrimmed(t *testing.T) {
	headers, rows := ParseCSV(" a , b \n 1 , 2 \n")
	require.Equal(t, []string{"a", "b"}, headers)
	require.Equal(t, "1", rows[0].Get("a"))
	require.Equal(t, "2", rows[0].Get("b"))
}
