package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptInt(t *testing.T) {
	br := bufio.NewReader(strings.NewReader(" 12 \nabc\n"))
	var out bytes.Buffer

	v, err := promptInt(br, &out, "请输入车辆数量: ")
	require.NoError(t, err)
	assert.Equal(t, 12, v)
	assert.Equal(t, "请输入车辆数量: ", out.String())

	_, err = promptInt(br, &out, "请输入无人机数量: ")
	assert.ErrorIs(t, err, util.ErrConfig)

	_, err = promptInt(br, &out, "请输入无人机数量: ")
	assert.ErrorIs(t, err, util.ErrConfig, "eof")
}
