package livestock

import (
	_ "embed"
	"fmt"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	"gopkg.in/yaml.v3"
)

//go:embed sample_catalog.yaml
var sampleCatalog []byte

type sampleFile struct {
	Livestock []model.LivestockItem `yaml:"livestock"`
}

// SampleCatalog returns the bundled demo listings in file order.
func SampleCatalog() ([]model.LivestockItem, error) {
	var f sampleFile
	if err := yaml.Unmarshal(sampleCatalog, &f); err != nil {
		return nil, fmt.Errorf("failed to parse sample catalog: %w", err)
	}
	for i := range f.Livestock {
		f.Livestock[i].Status = constant.ListingStatusAvailable
	}
	return f.Livestock, nil
}
