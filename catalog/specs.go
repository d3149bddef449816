package catalog

import "fmt"

// Spec is the machine shape behind an instance type.
type Spec struct {
	VCPU      int64
	MemoryGiB int64
	GPUCount  int64
	GPUModel  string
}

func (s Spec) String() string {
	if s.GPUCount == 0 {
		return fmt.Sprintf("%d vCPU, %d GiB", s.VCPU, s.MemoryGiB)
	}
	return fmt.Sprintf("%d vCPU, %d GiB, %dx %s", s.VCPU, s.MemoryGiB, s.GPUCount, s.GPUModel)
}

// The orchestrator only publishes names and prices; shapes are fixed per tier.
var specs = map[string]Spec{
	"C1ae.small":    {2, 16, 0, ""},
	"C1ae.medium":   {8, 32, 0, ""},
	"M1ae.small":    {4, 16, 1, "Nvidia 2060"},
	"M1ae.medium":   {8, 32, 1, "Nvidia 2060"},
	"M1ae.large":    {8, 32, 1, "Nvidia 2080 Ti"},
	"M2ae.small":    {4, 16, 1, "Nvidia 3060 Ti"},
	"M2ae.medium":   {8, 32, 1, "Nvidia 3060 Ti"},
	"M2ae.large":    {4, 16, 1, "Nvidia 3070"},
	"M2ae.xlarge":   {8, 32, 1, "Nvidia 3070 Ti"},
	"G1ae.small":    {4, 16, 1, "Nvidia 3080"},
	"G1ae.medium":   {8, 32, 1, "Nvidia 3080"},
	"G1ae.large":    {4, 16, 1, "Nvidia 3080 Ti"},
	"G1ae.xlarge":   {8, 32, 1, "Nvidia 3080 Ti"},
	"G2ae.small":    {4, 16, 1, "Nvidia T4"},
	"G2ae.medium":   {8, 32, 1, "Nvidia T4"},
	"G2ae.large":    {4, 16, 1, "Nvidia A10G"},
	"G2ae.xlarge":   {8, 32, 1, "Nvidia A10G"},
	"Hpc1ae.small":  {4, 16, 1, "Nvidia 3090"},
	"Hpc1ae.medium": {8, 32, 1, "Nvidia 3090"},
	"Hpc1ae.large":  {4, 16, 1, "Nvidia 3090 Ti"},
	"Hpc1ae.xlarge": {8, 32, 1, "Nvidia 3090 Ti"},
	"Hpc2ae.small":  {4, 16, 1, "Nvidia 4090"},
	"Hpc2ae.medium": {8, 32, 1, "Nvidia 4090"},
	"Hpc2ae.large":  {4, 16, 1, "Nvidia 4090 Ti"},
	"Hpc2ae.xlarge": {8, 32, 1, "Nvidia 4090 Ti"},
	"P1ae.small":    {12, 128, 1, "Nvidia A100"},
	"P1ae.medium":   {24, 256, 1, "Nvidia A100"},
	"P1ae.large":    {12, 128, 1, "Nvidia H100"},
	"P1ae.xlarge":   {24, 256, 1, "Nvidia H100"},
}

// SpecOf reports the shape of a known instance type.
func SpecOf(instanceType string) (Spec, bool) {
	s, ok := specs[instanceType]
	return s, ok
}
