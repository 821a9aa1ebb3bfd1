// backend-go/internal/model/tree.go
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// treeNode mirrors one node of an XGBoost JSON model dump.
type treeNode struct {
	NodeID         int        `json:"nodeid"`
	Split          string     `json:"split,omitempty"`
	SplitCondition float64    `json:"split_condition,omitempty"`
	Yes            int        `json:"yes,omitempty"`
	No             int        `json:"no,omitempty"`
	Missing        int        `json:"missing,omitempty"`
	Leaf           *float64   `json:"leaf,omitempty"`
	Children       []treeNode `json:"children,omitempty"`
}

// treeArtifact is the envelope the training pipeline exports per medicine.
type treeArtifact struct {
	BaseScore   float64    `json:"base_score"`
	NumFeatures int        `json:"num_features"`
	Trees       []treeNode `json:"trees"`
}

// TreeEnsemble is a gradient-boosted tree regressor reconstructed from its
// JSON dump. Prediction is the base score plus the sum of one leaf per tree.
type TreeEnsemble struct {
	baseScore   float64
	numFeatures int
	trees       []treeNode
}

// ParseTreeEnsemble parses an exported booster. Both the enveloped form
// ({"base_score": ..., "trees": [...]}) and a bare dump array are accepted.
func ParseTreeEnsemble(data []byte) (*TreeEnsemble, error) {
	var artifact treeArtifact
	if err := json.Unmarshal(data, &artifact); err != nil || len(artifact.Trees) == 0 {
		var bare []treeNode
		if bareErr := json.Unmarshal(data, &bare); bareErr != nil || len(bare) == 0 {
			return nil, fmt.Errorf("parse tree ensemble: %w", firstErr(err, bareErr))
		}
		artifact = treeArtifact{BaseScore: 0.5, Trees: bare}
	}

	return &TreeEnsemble{
		baseScore:   artifact.BaseScore,
		numFeatures: artifact.NumFeatures,
		trees:       artifact.Trees,
	}, nil
}

// Score walks every tree with the given feature row and sums the leaves.
func (e *TreeEnsemble) Score(features []float64) (float64, error) {
	if e.numFeatures > 0 && len(features) != e.numFeatures {
		return 0, fmt.Errorf("%w: got %d features, model expects %d",
			ErrShapeMismatch, len(features), e.numFeatures)
	}

	sum := e.baseScore
	for i := range e.trees {
		leaf, err := walkTree(&e.trees[i], features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += leaf
	}
	return sum, nil
}

func walkTree(node *treeNode, features []float64) (float64, error) {
	for {
		if node.Leaf != nil {
			return *node.Leaf, nil
		}
		if len(node.Children) == 0 {
			return 0, fmt.Errorf("node %d has neither leaf nor children", node.NodeID)
		}

		idx, err := splitFeatureIndex(node.Split)
		if err != nil {
			return 0, err
		}
		if idx >= len(features) {
			return 0, fmt.Errorf("%w: split on f%d with %d features",
				ErrShapeMismatch, idx, len(features))
		}

		next := node.No
		if features[idx] < node.SplitCondition {
			next = node.Yes
		}

		child := childByID(node.Children, next)
		if child == nil {
			return 0, fmt.Errorf("node %d references missing child %d", node.NodeID, next)
		}
		node = child
	}
}

func childByID(children []treeNode, id int) *treeNode {
	for i := range children {
		if children[i].NodeID == id {
			return &children[i]
		}
	}
	return nil
}

func splitFeatureIndex(split string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimPrefix(split, "f"))
	if err != nil {
		return 0, fmt.Errorf("unsupported split feature %q: %w", split, err)
	}
	return idx, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return errors.New("artifact contains no trees")
}
