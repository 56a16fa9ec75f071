package hst

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

//Save writes the forest as indented JSON: topology, bounds and the current
//mass of every node, so a reloaded forest scores identically.
func (f *HalfSpaceForest) Save(fileName string) error {
	dest, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "create model file %s", fileName)
	}
	defer func() { HandleError(dest.Close()) }()

	modelByteRepr, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal forest")
	}

	_, err = dest.Write(modelByteRepr)
	return errors.Wrapf(err, "write model file %s", fileName)
}

//LoadForest reads a forest saved by Save and re-validates its configuration.
func LoadForest(fileName string) (*HalfSpaceForest, error) {
	source, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open model file %s", fileName)
	}
	defer func() { HandleError(source.Close()) }()

	forest := &HalfSpaceForest{}
	decoder := json.NewDecoder(source)
	if err := decoder.Decode(forest); err != nil {
		return nil, errors.Wrapf(err, "decode model file %s", fileName)
	}

	if len(forest.Trees) == 0 {
		return nil, &ConfigError{Reason: "model file holds no trees"}
	}
	if err := forest.Bounds.Validate(); err != nil {
		return nil, err
	}
	return forest, nil
}
