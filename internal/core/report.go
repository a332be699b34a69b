// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/toeirei/assetkeeper/internal/model"
)

// ReportFilter selects which usages a report contains.
type ReportFilter string

const (
	ReportAll ReportFilter = "all"
	ReportIn  ReportFilter = "in"
	ReportOut ReportFilter = "out"
)

// ParseReportFilter accepts all, in or out in any case.
func ParseReportFilter(s string) (ReportFilter, error) {
	switch f := ReportFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case ReportAll, ReportIn, ReportOut:
		return f, nil
	}
	return "", fmt.Errorf("unknown report filter %q", s)
}

func (f ReportFilter) status() model.UsageStatus {
	switch f {
	case ReportIn:
		return model.CheckedIn
	case ReportOut:
		return model.CheckedOut
	}
	return ""
}

// ShowsStatus reports whether rows of this report carry a status column.
func (f ReportFilter) ShowsStatus() bool { return f == ReportAll }

// Report resolves the employee and returns the matching usage rows joined
// with their device, oldest first. The sequence is lazy and reads from the
// Records session, so it must be consumed before that session ends.
func Report(ctx context.Context, rec Records, employeeCode string, filter ReportFilter) (*model.Employee, iter.Seq2[model.UsageRow, error], error) {
	filter, err := ParseReportFilter(string(filter))
	if err != nil {
		return nil, nil, err
	}
	e, err := FindEmployee(ctx, rec, employeeCode)
	if err != nil {
		return nil, nil, err
	}
	return e, rec.UsageRows(ctx, e.ID, filter.status()), nil
}

// CollectReport drains a report sequence into a slice.
func CollectReport(seq iter.Seq2[model.UsageRow, error]) ([]model.UsageRow, error) {
	var rows []model.UsageRow
	for row, err := range seq {
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
