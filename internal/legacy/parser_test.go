package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStudentName(t *testing.T) {
	html := `<html><body>
		<div class="header"><span class="user student-name label">CRUZ, ANA MARIE</span></div>
	</body></html>`

	name, err := ExtractStudentName(html)
	require.NoError(t, err)
	assert.Equal(t, "ANA MARIE", name.FirstName)
	assert.Equal(t, "CRUZ", name.LastName)
}

func TestExtractStudentNameWithoutComma(t *testing.T) {
	name, err := ExtractStudentName(`<span class="student-name">Ana Marie Cruz</span>`)
	require.NoError(t, err)
	assert.Equal(t, "Ana Marie", name.FirstName)
	assert.Equal(t, "Cruz", name.LastName)
}

func TestExtractStudentNameUnescapesEntities(t *testing.T) {
	name, err := ExtractStudentName(`<span class="student-name">O&#39;BRIEN, SE&Aacute;N</span>`)
	require.NoError(t, err)
	assert.Equal(t, "O'BRIEN", name.LastName)
	assert.Equal(t, "SEÁN", name.FirstName)
}

func TestExtractStudentNameSpansLines(t *testing.T) {
	html := "<span class=\"student-name\">\n\tCRUZ, ANA\n</span>"
	name, err := ExtractStudentName(html)
	require.NoError(t, err)
	assert.Equal(t, "CRUZ", name.LastName)
}

func TestExtractStudentNameMissingSpan(t *testing.T) {
	_, err := ExtractStudentName(`<html><body><h1>Welcome</h1></body></html>`)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "student name", parseErr.Op)
}

func TestExtractStudentNameSingleWord(t *testing.T) {
	_, err := ExtractStudentName(`<span class="student-name">Cher</span>`)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
