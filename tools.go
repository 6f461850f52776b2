//go:build tools

// Package afya_chat pins mockgen for go generate.
package afya_chat

import (
	_ "go.uber.org/mock/mockgen"
)
