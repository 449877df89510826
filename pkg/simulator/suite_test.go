package simulator

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

//go:generate mockgen -destination "mock_observer_test.go" -package $GOPACKAGE -write_package_comment=false github.com/llm-d-incubation/loss-simulator/pkg/simulator Observer

func TestSimulator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Simulator Suite")
}
