package dashboard

// ChartType selects how a chart is drawn.
type ChartType string

const (
	ChartLine      ChartType = "line"
	ChartBar       ChartType = "bar"
	ChartDoughnut  ChartType = "doughnut"
	ChartPolarArea ChartType = "polarArea"
)

// Base theme colors.
const (
	ThemeText         = "#e2e8f0"
	ThemeMuted        = "#9da6c6"
	ThemeTitle        = "#f4f6ff"
	ThemeGrid         = "rgba(148, 163, 184, 0.1)"
	ThemeTooltipBg    = "rgba(10, 18, 44, 0.95)"
	ThemeTooltipEdge  = "rgba(148, 163, 184, 0.22)"
	ThemeSliceOutline = "rgba(5, 10, 31, 0.9)"
)

// ChartConfig is everything a canvas needs to draw one chart.
type ChartConfig struct {
	Type    ChartType
	Data    ChartData
	Options ChartOptions
}

// ChartData holds labels and one or more datasets.
type ChartData struct {
	Labels   []string
	Datasets []Dataset
}

// Dataset is one series.
type Dataset struct {
	Label           string
	Data            []float64
	BorderColor     string
	BackgroundColor []string
	BorderWidth     int
	BorderRadius    int
	Tension         float64
	Fill            bool
}

// ChartOptions are the merged display options.
type ChartOptions struct {
	Responsive          bool
	MaintainAspectRatio bool
	Cutout              string
	Plugins             Plugins
	Scales              map[string]Scale
}

// Plugins holds per-plugin options.
type Plugins struct {
	Legend  *LegendOptions
	Tooltip *TooltipOptions
}

// LegendOptions style the legend.
type LegendOptions struct {
	LabelColor string
}

// TooltipOptions style the hover tooltip.
type TooltipOptions struct {
	BackgroundColor string
	BorderColor     string
	BorderWidth     int
	TitleColor      string
	BodyColor       string
}

// Scale styles one axis.
type Scale struct {
	TickColor string
	GridColor string
}

// ChartOverrides are per-chart changes to the base options. Nil fields keep
// the base value.
type ChartOverrides struct {
	Responsive          *bool
	MaintainAspectRatio *bool
	Cutout              *string
	// Plugins merge with the base one plugin at a time.
	Plugins *Plugins
	// Scales, when non-nil (even empty), replace the base scales entirely.
	Scales map[string]Scale
}

// BaseChartOptions returns a fresh copy of the shared theme.
func BaseChartOptions() ChartOptions {
	return ChartOptions{
		Responsive:          true,
		MaintainAspectRatio: false,
		Plugins: Plugins{
			Legend: &LegendOptions{LabelColor: ThemeMuted},
			Tooltip: &TooltipOptions{
				BackgroundColor: ThemeTooltipBg,
				BorderColor:     ThemeTooltipEdge,
				BorderWidth:     1,
				TitleColor:      ThemeTitle,
				BodyColor:       ThemeText,
			},
		},
		Scales: map[string]Scale{
			"x": {TickColor: ThemeMuted, GridColor: ThemeGrid},
			"y": {TickColor: ThemeMuted, GridColor: ThemeGrid},
		},
	}
}

// BuildChartConfig merges overrides into the base theme.
func BuildChartConfig(chartType ChartType, data ChartData, overrides ChartOverrides) ChartConfig {
	opts := BaseChartOptions()

	if overrides.Responsive != nil {
		opts.Responsive = *overrides.Responsive
	}
	if overrides.MaintainAspectRatio != nil {
		opts.MaintainAspectRatio = *overrides.MaintainAspectRatio
	}
	if overrides.Cutout != nil {
		opts.Cutout = *overrides.Cutout
	}

	if p := overrides.Plugins; p != nil {
		if p.Legend != nil {
			opts.Plugins.Legend = p.Legend
		}
		if p.Tooltip != nil {
			opts.Plugins.Tooltip = p.Tooltip
		}
	}

	if overrides.Scales != nil {
		scales := make(map[string]Scale, len(overrides.Scales))
		for k, v := range overrides.Scales {
			scales[k] = v
		}
		opts.Scales = scales
	}

	return ChartConfig{Type: chartType, Data: data, Options: opts}
}
