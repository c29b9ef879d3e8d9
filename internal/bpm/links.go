package bpm

import (
	"net/url"
	"strings"
)

// DefaultAppPath is the living application the task details page belongs to.
const DefaultAppPath = "/bonita/apps/adminAppBonita"

// detailsPage is the flow node details page of the admin application.
const detailsPage = "admin-task-details"

// DetailsURL returns "<appPath>/admin-task-details?id=<flowNodeID>".
func DetailsURL(appPath, flowNodeID string) string {
	if appPath == "" {
		appPath = DefaultAppPath
	}
	return strings.TrimRight(appPath, "/") + "/" + detailsPage + "?id=" + url.QueryEscape(flowNodeID)
}
