package source

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwm-statusbar/pkg/config"
)

func strPtr(s string) *string { return &s }
func msPtr(ms uint64) *uint64  { return &ms }

func TestNewAppliesDefaults(t *testing.T) {
	cases := []struct {
		cfg      config.SourceConfig
		interval time.Duration
	}{
		{config.SourceConfig{Type: config.SourceCPU}, time.Second},
		{config.SourceConfig{Type: config.SourceMemory}, time.Second},
		{config.SourceConfig{Type: config.SourceDisk}, 2 * time.Second},
		{config.SourceConfig{Type: config.SourceBattery}, time.Second},
		{config.SourceConfig{Type: config.SourceTemperature}, time.Second},
		{config.SourceConfig{Type: config.SourceVolume}, 100 * time.Millisecond},
		{config.SourceConfig{Type: config.SourceNetwork}, time.Second},
		{config.SourceConfig{Type: config.SourceScript, Path: "/bin/true"}, time.Second},
		{config.SourceConfig{Type: config.SourceWeather}, 30 * time.Minute},
		{config.SourceConfig{Type: config.SourceDate}, time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.cfg.Type, func(t *testing.T) {
			s, err := New(tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.cfg.Type, s.Kind())
			assert.Equal(t, tc.interval, s.Interval())
		})
	}
}

func TestNewHonorsOverrides(t *testing.T) {
	s, err := New(config.SourceConfig{
		Type: config.SourceCPU,
		Time: msPtr(250),
		Name: strPtr(""),
		Icon: strPtr("C"),
	})
	require.NoError(t, err)

	c := s.(*CPU)
	assert.Equal(t, 250*time.Millisecond, c.Interval())
	assert.Equal(t, "", c.name)
	assert.Equal(t, "C", c.icon)
	assert.Equal(t, cpuModeUsage, c.mode)
}

func TestNewAllKeepsOrderAndReportsConfigErrors(t *testing.T) {
	sources, err := NewAll([]config.SourceConfig{
		{Type: config.SourceDate},
		{Type: config.SourceCPU},
		{Type: config.SourceDisk},
	})
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, []string{"date", "cpu", "disk"}, []string{sources[0].Kind(), sources[1].Kind(), sources[2].Kind()})

	for name, bad := range map[string]config.SourceConfig{
		"bad date format":     {Type: config.SourceDate, Format: "%Q"},
		"script without path": {Type: config.SourceScript},
		"unknown type":        {Type: "gpu"},
		"zero interval":       {Type: config.SourceCPU, Time: msPtr(0)},
		"wrapped negative":    {Type: config.SourceCPU, Time: msPtr(^uint64(4))},
	} {
		t.Run(name, func(t *testing.T) {
			sources, err := NewAll([]config.SourceConfig{{Type: config.SourceCPU}, bad})
			require.Error(t, err)
			assert.Nil(t, sources)
			var cfgErr *config.Error
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, " i CPU 42% ", Render("i", "CPU", "42%"))
}

func TestSampleErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := base{kind: "cpu"}.fail(cause)

	var se *SampleError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "cpu", se.Source)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "sample cpu: boom", err.Error())
}
