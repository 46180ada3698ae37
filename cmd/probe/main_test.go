package main

import (
	"testing"

	"golang-stock-proxy/internal/probe/scenario"
	"golang-stock-proxy/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestFinish(t *testing.T) {
	a := &app{log: logger.NewNop()}

	assert.NoError(t, finish(a, []scenario.Result{{Name: "健康检查", Passed: true}}))
	assert.ErrorIs(t, finish(a, []scenario.Result{
		{Name: "健康检查", Passed: true},
		{Name: "流式分析", Passed: false},
	}), errScenarioFailed)
}
