// Package transforms describes the preprocessing and augmentation pipelines
// used to train the segmentation models, as declarative step lists an
// external training framework can consume. The values mirror the recipe the
// models were actually trained with, so exports stay reproducible.
package transforms

import "fmt"

// Step is one node of a pipeline: a transform name, the data keys it applies
// to, and its parameters.
type Step struct {
	Name   string         `json:"name" yaml:"name"`
	Keys   []string       `json:"keys,omitempty" yaml:"keys,omitempty"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// TrainOptions parameterizes the training pipeline.
type TrainOptions struct {
	PatchSize        [3]int
	SamplesPerVolume int
	LabelKey         string
}

// padShape is the median image size in voxels after 1 mm isotropic
// resampling.
var padShape = []int{192, 228, 106}

func (o TrainOptions) normalized() (TrainOptions, error) {
	if o.LabelKey == "" {
		o.LabelKey = "label"
	}
	if o.SamplesPerVolume <= 0 {
		o.SamplesPerVolume = 4
	}
	for _, dim := range o.PatchSize {
		if dim <= 0 {
			return o, fmt.Errorf("patch size must be positive in every dimension, got %v", o.PatchSize)
		}
	}
	return o, nil
}

// Train returns the training pipeline: crop to foreground, normalize,
// resample to 1 mm, pad, sample patches around the label, then the
// augmentation stack.
func Train(opts TrainOptions) ([]Step, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}

	both := []string{"image", opts.LabelKey}
	image := []string{"image"}
	patch := []int{opts.PatchSize[0], opts.PatchSize[1], opts.PatchSize[2]}

	return []Step{
		{Name: "LoadImaged", Keys: both},
		{Name: "EnsureChannelFirstd", Keys: both},
		{Name: "CropForegroundd", Keys: both, Params: map[string]any{
			"source_key": "image",
		}},
		{Name: "NormalizeIntensityd", Keys: image, Params: map[string]any{
			"nonzero":      false,
			"channel_wise": false,
		}},
		{Name: "Spacingd", Keys: both, Params: map[string]any{
			"pixdim": []float64{1.0, 1.0, 1.0},
			"mode":   []string{"bilinear", "bilinear"},
		}},
		{Name: "SpatialPadd", Keys: both, Params: map[string]any{
			"spatial_size": padShape,
			"method":       "symmetric",
		}},
		{Name: "RandCropByPosNegLabeld", Keys: both, Params: map[string]any{
			"label_key":       opts.LabelKey,
			"spatial_size":    patch,
			"pos":             2,
			"neg":             1,
			"num_samples":     opts.SamplesPerVolume,
			"image_key":       "image",
			"image_threshold": 0.0,
		}},
		{Name: "RandAffined", Keys: both, Params: map[string]any{
			"mode":            []string{"bilinear", "nearest"},
			"prob":            1.0,
			"rotate_range":    []float64{-20.0, 20.0},
			"scale_range":     []float64{0.8, 1.2},
			"translate_range": []float64{-0.1, 0.1},
		}},
		{Name: "Rand3DElasticd", Keys: both, Params: map[string]any{
			"sigma_range":     []float64{3.5, 5.5},
			"magnitude_range": []float64{25, 35},
			"prob":            0.5,
		}},
		{Name: "RandSimulateLowResolutiond", Keys: image, Params: map[string]any{
			"zoom_range": []float64{0.5, 1.0},
			"prob":       0.25,
		}},
		{Name: "RandAdjustContrastd", Keys: image, Params: map[string]any{
			"gamma": []float64{0.5, 1.5},
			"prob":  0.5,
		}},
		{Name: "RandBiasFieldd", Keys: image, Params: map[string]any{
			"coeff_range": []float64{0.0, 0.5},
			"degree":      3,
			"prob":        0.3,
		}},
		{Name: "RandGaussianSmoothd", Keys: image, Params: map[string]any{
			"sigma_x": []float64{0.0, 2.0},
			"sigma_y": []float64{0.0, 2.0},
			"sigma_z": []float64{0.0, 2.0},
			"prob":    0.3,
		}},
	}, nil
}

// Validation returns the deterministic evaluation pipeline: RPI
// reorientation plus the training preprocessing, with no augmentation.
func Validation(labelKey string) []Step {
	if labelKey == "" {
		labelKey = "label"
	}
	both := []string{"image", labelKey}
	image := []string{"image"}

	return []Step{
		{Name: "LoadImaged", Keys: both},
		{Name: "EnsureChannelFirstd", Keys: both},
		{Name: "Orientationd", Keys: both, Params: map[string]any{
			"axcodes": "RPI",
		}},
		{Name: "CropForegroundd", Keys: both, Params: map[string]any{
			"source_key": "image",
		}},
		{Name: "NormalizeIntensityd", Keys: image, Params: map[string]any{
			"nonzero":      false,
			"channel_wise": false,
		}},
		{Name: "Spacingd", Keys: both, Params: map[string]any{
			"pixdim": []float64{1.0, 1.0, 1.0},
			"mode":   []string{"bilinear", "bilinear"},
		}},
	}
}
