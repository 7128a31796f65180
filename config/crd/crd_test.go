package crd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kubeautogpt/internal/manifest"
	v1 "kubeautogpt/pkg/apis/kubeautogpt/v1"
)

func TestKubeAutoGptsDecodes(t *testing.T) {
	objs, err := manifest.Decode(KubeAutoGpts)
	require.NoError(t, err)
	require.Len(t, objs, 1)

	crd := objs[0]
	assert.Equal(t, "CustomResourceDefinition", crd.GetKind())
	assert.Equal(t, v1.Plural+"."+v1.Group, crd.GetName())
	assert.NoError(t, manifest.Validate(objs))
}
