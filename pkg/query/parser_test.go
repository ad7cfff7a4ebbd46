package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FilterAnd(t *testing.T) {
	q, err := Parse(`status >= 500 and method == "GET"`)
	require.NoError(t, err)
	require.NotNil(t, q.Where)

	bin, ok := (*q.Where).(BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpAnd, bin.Op)

	left, ok := bin.Left.(Comparison)
	require.True(t, ok)
	assert.Equal(t, "status", left.Field)
	assert.Equal(t, OpGte, left.Op)
	assert.Equal(t, int64(500), left.Value.I)

	right, ok := bin.Right.(Comparison)
	require.True(t, ok)
	assert.Equal(t, "method", right.Field)
	assert.Equal(t, "GET", right.Value.S)
}

func TestParse_GroupByCount(t *testing.T) {
	q, err := Parse(`status >= 400 group by ip count`)
	require.NoError(t, err)
	assert.Equal(t, []string{"ip"}, q.Group)
	require.Len(t, q.Aggs, 1)
	assert.Equal(t, AggCount, q.Aggs[0].Func)
}

func TestParse_AggAvg(t *testing.T) {
	q, err := Parse(`ip == "1.1.1.1" group by ip avg latency`)
	require.NoError(t, err)
	require.Len(t, q.Aggs, 1)
	assert.Equal(t, AggAvg, q.Aggs[0].Func)
	assert.Equal(t, "latency", q.Aggs[0].Field)
}

func TestParse_In(t *testing.T) {
	q, err := Parse(`status in {500, 502}`)
	require.NoError(t, err)
	in, ok := (*q.Where).(InExpr)
	require.True(t, ok)
	assert.Equal(t, "status", in.Field)
	require.Len(t, in.Values, 2)
	assert.Equal(t, int64(500), in.Values[0].I)
	assert.Equal(t, int64(502), in.Values[1].I)
}

func TestParse_NoFilterGroupOnly(t *testing.T) {
	q, err := Parse(`group by ip count`)
	require.NoError(t, err)
	assert.Nil(t, q.Where)
	assert.Equal(t, []string{"ip"}, q.Group)
}

func TestParse_SortAndLimit(t *testing.T) {
	q, err := Parse(`status == 200 sort by latency desc limit 10`)
	require.NoError(t, err)
	require.NotNil(t, q.Sort)
	assert.Equal(t, "latency", q.Sort.Field)
	assert.Equal(t, SortDesc, q.Sort.Dir)
	require.NotNil(t, q.Limit)
	assert.Equal(t, uint64(10), *q.Limit)
}

func TestParse_NotAndParens(t *testing.T) {
	q, err := Parse(`not (status == 200)`)
	require.NoError(t, err)
	un, ok := (*q.Where).(UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpNot, un.Op)
	_, ok = un.Operand.(Comparison)
	assert.True(t, ok)
}

func TestParse_HasAndMatches(t *testing.T) {
	q, err := Parse(`has(request_id)`)
	require.NoError(t, err)
	has, ok := (*q.Where).(HasExpr)
	require.True(t, ok)
	assert.Equal(t, "request_id", has.Field)

	q, err = Parse(`path matches "^/api/"`)
	require.NoError(t, err)
	m, ok := (*q.Where).(MatchExpr)
	require.True(t, ok)
	assert.Equal(t, "path", m.Field)
	assert.Equal(t, "^/api/", m.Pattern)
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse(`status >= `)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParse_WhereKeywordOptionalAndExplicit(t *testing.T) {
	q1, err := Parse(`where status == 200`)
	require.NoError(t, err)
	q2, err := Parse(`status == 200`)
	require.NoError(t, err)
	assert.Equal(t, *q1.Where, *q2.Where)
}
