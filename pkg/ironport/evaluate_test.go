package ironport

import (
	"testing"

	"github.com/consol-monitoring/check_ironport/pkg/convert"
	"github.com/consol-monitoring/check_ironport/pkg/threshold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustThreshold(t *testing.T, warning, critical float64) *threshold.Threshold {
	t.Helper()

	thresh, err := threshold.New(warning, critical)
	require.NoError(t, err)

	return thresh
}

func mustSpec(t *testing.T, name string) *MetricSpec {
	t.Helper()

	spec, err := Resolve(name)
	require.NoError(t, err)

	return spec
}

func TestEvaluateValueBoundaries(t *testing.T) {
	t.Parallel()

	spec := mustSpec(t, "cpu")
	thresh := mustThreshold(t, 80, 90)

	tests := []struct {
		value interface{}
		state Severity
	}{
		{0, CheckExitOK},
		{79, CheckExitOK},
		{80, CheckExitOK},
		{80.5, CheckExitWarning},
		{81, CheckExitWarning},
		{90, CheckExitWarning},
		{91, CheckExitCritical},
		{uint(100), CheckExitCritical},
		{[]byte("85"), CheckExitWarning},
	}

	for _, tst := range tests {
		inst, err := EvaluateValue(spec, tst.value, thresh)
		require.NoError(t, err)
		assert.Equalf(t, tst.state, inst.State, "state for %v", tst.value)
	}
}

func TestEvaluateScalar(t *testing.T) {
	t.Parallel()

	res, err := Evaluate(mustSpec(t, "cpu"), []interface{}{85}, mustThreshold(t, 80, 90))
	require.NoError(t, err)
	assert.Equal(t, CheckExitWarning, res.State)
	assert.Equal(t, "CPU WARNING - CPU utilization is 85%", res.Output)
	assert.Equal(t, "CPU WARNING - CPU utilization is 85% | 'cpu'=85%;80;90", res.BuildPluginOutput())

	res, err = Evaluate(mustSpec(t, "workqueue"), []interface{}{uint(12)}, mustThreshold(t, 100, 500))
	require.NoError(t, err)
	assert.Equal(t, "Work queue OK - 12 messages in work queue | 'workqueue'=12;100;500", res.BuildPluginOutput())

	res, err = Evaluate(mustSpec(t, "temperature"), []interface{}{45}, mustThreshold(t, 35, 40))
	require.NoError(t, err)
	assert.Equal(t, CheckExitCritical, res.State)
	assert.Equal(t, "Temperature CRITICAL - Temperature is 45 °C | 'temperature'=45;35;40", res.BuildPluginOutput())
}

func TestEvaluateNonNumeric(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(mustSpec(t, "mem"), []interface{}{[]byte("n/a")}, mustThreshold(t, 80, 90))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value")

	_, err = Evaluate(mustSpec(t, "fan"), []interface{}{uint(1200), "broken"}, mustThreshold(t, 3000, 5000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Fan2")

	_, err = Evaluate(mustSpec(t, "cpu"), []interface{}{[]byte("NaN")}, mustThreshold(t, 80, 90))
	require.ErrorIs(t, err, convert.ErrNotFinite)

	_, err = Evaluate(mustSpec(t, "dns"), []interface{}{uint(5), []byte("Inf")}, mustThreshold(t, 20, 40))
	require.ErrorIs(t, err, convert.ErrNotFinite)

	_, err = Evaluate(mustSpec(t, "fan"), []interface{}{uint(1200), []byte("nan")}, mustThreshold(t, 3000, 5000))
	require.ErrorIs(t, err, convert.ErrNotFinite)
}

func TestEvaluateMissingThreshold(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(mustSpec(t, "mem"), []interface{}{50}, nil)
	require.ErrorIs(t, err, threshold.ErrMissing)

	// status kinds do not need thresholds
	res, err := Evaluate(mustSpec(t, "queueavail"), []interface{}{1}, nil)
	require.NoError(t, err)
	assert.Equal(t, CheckExitOK, res.State)
}

func TestEvaluateSampleSize(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(mustSpec(t, "mem"), []interface{}{}, mustThreshold(t, 80, 90))
	require.ErrorIs(t, err, ErrSampleSize)

	_, err = Evaluate(mustSpec(t, "dns"), []interface{}{1}, mustThreshold(t, 20, 40))
	require.ErrorIs(t, err, ErrSampleSize)

	_, err = Evaluate(mustSpec(t, "raid"), []interface{}{}, nil)
	require.ErrorIs(t, err, ErrNoInstances)
}

func TestEvaluateStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		code   interface{}
		state  Severity
		output string
	}{
		{"queueavail", 1, CheckExitOK, "Queue availability OK - Space available"},
		{"queueavail", 2, CheckExitWarning, "Queue availability WARNING - Space shortage"},
		{"queueavail", 3, CheckExitCritical, "Queue availability CRITICAL - Full"},
		{"queueavail", 7, CheckExitUnknown, "Queue availability UNKNOWN - Unknown"},
		{"queueavail", "garbage", CheckExitUnknown, "Queue availability UNKNOWN - Unknown"},
		{"memoryavail", 2, CheckExitWarning, "Memory availability WARNING - Memory shortage"},
		{"resourceconservation", 3, CheckExitWarning, "Resource conservation WARNING - Queue space shortage"},
	}

	for _, tst := range tests {
		res, err := Evaluate(mustSpec(t, tst.name), []interface{}{tst.code}, nil)
		require.NoError(t, err)
		assert.Equalf(t, tst.state, res.State, "state for %s=%v", tst.name, tst.code)
		assert.Equalf(t, tst.output, res.BuildPluginOutput(), "output for %s=%v", tst.name, tst.code)
		assert.Empty(t, res.Metrics, "no performance data for status checks")
	}
}

func TestEvaluateDual(t *testing.T) {
	t.Parallel()

	spec := mustSpec(t, "dns")
	thresh := mustThreshold(t, 20, 40)

	res, err := Evaluate(spec, []interface{}{uint(5), uint(50)}, thresh)
	require.NoError(t, err)
	assert.Equal(t, CheckExitCritical, res.State)
	assert.Equal(t, "DNS requests CRITICAL - pending=5 (OK) outstanding=50 (CRITICAL) | 'pending'=5;20;40 'outstanding'=50;20;40",
		res.BuildPluginOutput())

	res, err = Evaluate(spec, []interface{}{25, 1}, thresh)
	require.NoError(t, err)
	assert.Equal(t, CheckExitWarning, res.State)
}

func TestEvaluateStatusTable(t *testing.T) {
	t.Parallel()

	res, err := Evaluate(mustSpec(t, "raid"), []interface{}{1, 3, 9}, nil)
	require.NoError(t, err)
	assert.Equal(t, CheckExitWarning, res.State, "first problem wins, unknown comes later")
	assert.Equal(t, "RAID status WARNING - Drive1=Healthy (OK) Drive2=Rebuilding (WARNING) Drive3=Unknown (UNKNOWN)", res.Output)
	assert.Empty(t, res.Metrics)

	res, err = Evaluate(mustSpec(t, "psredundancy"), []interface{}{1, 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, CheckExitOK, res.State)
	assert.Equal(t, "Power Supply redundancy OK - PS 1=Redundancy OK (OK) PS 2=Redundancy OK (OK)", res.Output)
}

func TestEvaluateValueTable(t *testing.T) {
	t.Parallel()

	res, err := Evaluate(mustSpec(t, "fan"), []interface{}{uint(1200), uint(4000), uint(6000)}, mustThreshold(t, 3000, 5000))
	require.NoError(t, err)
	assert.Equal(t, CheckExitCritical, res.State)
	assert.Equal(t, "Fan status CRITICAL - Fan1=1200 RPM (OK) Fan2=4000 RPM (WARNING) Fan3=6000 RPM (CRITICAL)", res.Output)
	require.Len(t, res.Metrics, 3)
	assert.Equal(t, "'Fan3'=6000;3000;5000", res.Metrics[2].String())
}

func TestEvaluateIdempotent(t *testing.T) {
	t.Parallel()

	spec := mustSpec(t, "fan")
	thresh := mustThreshold(t, 3000, 5000)
	values := []interface{}{uint(1200), uint(4000)}

	first, err := Evaluate(spec, values, thresh)
	require.NoError(t, err)
	second, err := Evaluate(spec, values, thresh)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
