// Package crd embeds the KubeAutoGpts CustomResourceDefinition.
package crd

import _ "embed"

// KubeAutoGpts is the CRD manifest for kubeautogpt.io/v1 KubeAutoGpts.
//
//go:embed bases/kubeautogpt.io_kubeautogpts.yaml
var KubeAutoGpts string
