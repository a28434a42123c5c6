package common

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

// NA marks a spreadsheet cell deliberately left without a value.
const NA = "N/A"

var idNode *snowflake.Node

func init() {
	var err error
	idNode, err = snowflake.NewNode(1)
	if err != nil {
		zap.S().Error("snowflake node init error", err)
	}
}

// UUIDint64 returns a unique, time ordered 64 bit id.
func UUIDint64() int64 {
	return idNode.Generate().Int64()
}

// UUID returns UUIDint64 in its base36 form, suitable for request ids.
func UUID() string {
	return idNode.Generate().Base36()
}

// IsEmptyOrNA reports whether val carries no meaningful value.
func IsEmptyOrNA(val string) bool {
	v := strings.TrimSpace(val)
	return v == "" || v == NA
}

// IsRemoteURL reports whether val is an absolute http or https URL.
func IsRemoteURL(val string) bool {
	v := strings.ToLower(strings.TrimSpace(val))
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}
