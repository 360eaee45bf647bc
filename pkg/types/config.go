// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout. The upstream registry
	// specifies none; a bounded default (30s) guards against hung
	// connections.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "trial-monitor/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RegistryConfig holds settings for the clinical-trials registry client.
type RegistryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL overrides the registry search endpoint. Empty means the
	// production ClinicalTrials.gov endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// PageSize is the number of studies requested per page (default 1000).
	// Large enough that most product searches complete in one page.
	PageSize int `json:"page_size" yaml:"page_size"`
}

// ReportConfig holds settings for report output.
type ReportConfig struct {
	// OutDir is the directory where output workbooks are written.
	OutDir string `json:"out_dir" yaml:"out_dir"`
}

// HistoryConfig holds settings for the run-history store.
type HistoryConfig struct {
	// HistoryDir is the directory containing the history database
	// (trials.db) and exports.
	HistoryDir string `json:"history_dir" yaml:"history_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Report   ReportConfig   `json:"report" yaml:"report"`
	History  HistoryConfig  `json:"history" yaml:"history"`
}
