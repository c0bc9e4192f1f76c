package emotion

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"photobooth/internal/config"
	"photobooth/internal/logger"
	"photobooth/internal/model"

	pigo "github.com/esimov/pigo/core"
	"gocv.io/x/gocv"
)

const (
	inputSize          = 64  // Model input is a 64x64 grayscale crop
	faceQualityMin     = 5.0 // Minimum pigo detection quality
	clusterIoU         = 0.2
	cascadeShiftFactor = 0.1
	cascadeScaleFactor = 1.1
)

// AnalyzerService classifies facial emotion with a DNN model, using a pigo
// cascade to localize the face first. Detection enforcement is disabled:
// when no face is found the whole photo is classified as a best effort.
type AnalyzerService struct {
	net         gocv.Net
	netLoaded   bool
	cascade     *pigo.Pigo
	modelPath   string
	cascadePath string
	logger      *logger.Logger
	mu          sync.Mutex // gocv.Net forward passes are not concurrency safe
}

// NewAnalyzerService loads the emotion model and face cascade. Both loads are
// best effort: a missing cascade degrades to whole-image analysis, a missing
// model makes every Analyze call return an error.
func NewAnalyzerService(cfg *config.Config, logger *logger.Logger) *AnalyzerService {
	service := &AnalyzerService{
		modelPath:   cfg.EmotionModelPath,
		cascadePath: cfg.CascadePath,
		logger:      logger,
	}

	if err := service.initializeNet(); err != nil {
		service.logger.Warning("Could not initialize emotion network: %v", err)
	}
	if err := service.initializeCascade(); err != nil {
		service.logger.Warning("Could not load face cascade, analyzing whole photos: %v", err)
	}

	return service
}

// initializeNet loads the ONNX emotion classification network.
func (s *AnalyzerService) initializeNet() error {
	if _, err := os.Stat(s.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", s.modelPath)
	}

	net := gocv.ReadNetFromONNX(s.modelPath)
	if net.Empty() {
		return fmt.Errorf("failed to load network from %s", s.modelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		return fmt.Errorf("failed to set preferable backend or target")
	}

	s.net = net
	s.netLoaded = true
	s.logger.Info("Emotion network initialized successfully")
	return nil
}

// initializeCascade unpacks the pigo face detection cascade.
func (s *AnalyzerService) initializeCascade() error {
	data, err := os.ReadFile(s.cascadePath)
	if err != nil {
		return fmt.Errorf("cascade file not readable: %w", err)
	}

	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return fmt.Errorf("failed to unpack cascade: %w", err)
	}

	s.cascade = classifier
	s.logger.Info("Face cascade loaded successfully")
	return nil
}

// Analyze returns the emotion scores for img. The call is single shot:
// no retry, no caching.
func (s *AnalyzerService) Analyze(img image.Image) (*Result, error) {
	if !s.netLoaded {
		return nil, fmt.Errorf("emotion network not initialized")
	}

	region, found := s.locateFace(img)

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	face := mat
	if found {
		face = mat.Region(region)
		defer face.Close()
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(face, &gray, gocv.ColorRGBToGray); err != nil {
		return nil, fmt.Errorf("failed to convert to grayscale: %w", err)
	}

	blob := gocv.BlobFromImage(gray, 1.0/255.0, image.Pt(inputSize, inputSize), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.net.SetInput(blob, "")
	output := s.net.Forward("")
	defer output.Close()

	logits := make([]float64, len(Labels))
	for i := range Labels {
		logits[i] = float64(output.GetFloatAt(0, i))
	}

	return &Result{Scores: softmax(logits), FaceFound: found}, nil
}

// locateFace runs the cascade and returns the bounding square of the best
// detection, clamped to the image bounds.
func (s *AnalyzerService) locateFace(img image.Image) (image.Rectangle, bool) {
	if s.cascade == nil {
		return image.Rectangle{}, false
	}

	bounds := img.Bounds()
	cols := bounds.Dx()
	rows := bounds.Dy()
	minDim := cols
	if rows < minDim {
		minDim = rows
	}
	if minDim < 24 {
		return image.Rectangle{}, false
	}

	pixels := pigo.RgbToGrayscale(img)
	params := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     minDim,
		ShiftFactor: cascadeShiftFactor,
		ScaleFactor: cascadeScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	detections := s.cascade.RunCascade(params, 0.0)
	detections = s.cascade.ClusterDetections(detections, clusterIoU)

	best := pigo.Detection{}
	for _, det := range detections {
		if det.Q >= faceQualityMin && det.Scale > best.Scale {
			best = det
		}
	}
	if best.Scale == 0 {
		return image.Rectangle{}, false
	}

	half := best.Scale / 2
	rect := image.Rect(best.Col-half, best.Row-half, best.Col+half, best.Row+half)
	rect = rect.Intersect(image.Rect(0, 0, cols, rows))
	if rect.Empty() {
		return image.Rectangle{}, false
	}
	return rect, true
}

// Close releases the network resources.
func (s *AnalyzerService) Close() {
	if s.netLoaded {
		s.net.Close()
		s.netLoaded = false
	}
}

// softmax normalizes logits into a score distribution over Labels.
func softmax(logits []float64) model.EmotionScores {
	maxLogit := math.Inf(-1)
	for _, v := range logits {
		if v > maxLogit {
			maxLogit = v
		}
	}

	var sum float64
	exps := make([]float64, len(logits))
	for i, v := range logits {
		exps[i] = math.Exp(v - maxLogit)
		sum += exps[i]
	}

	scores := make(model.EmotionScores, len(Labels))
	for i, label := range Labels {
		scores[label] = exps[i] / sum
	}
	return scores
}
