// Package fes reads FES2022 NetCDF tidal constituent atlases.
package fes

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"sync"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/mondosurf/tide-api/internal/adapter/grid"
	"github.com/mondosurf/tide-api/internal/domain"
)

// Store resolves per-constituent (amplitude, phase) samples from FES2022
// atlas files, one NetCDF file per constituent named "<constituent>_fes2022.nc".
//
// Datasets are loaded lazily and cached for the lifetime of the store;
// entries are never mutated after insertion, so concurrent readers only
// contend on the RWMutex during first access.
type Store struct {
	dataDir string
	cache   map[domain.Name]*dataset
	mu      sync.RWMutex
}

// dataset holds one constituent's loaded grids. Amplitude is in meters,
// phase in degrees (Greenwich lag). Missing cells are NaN.
type dataset struct {
	amplitude *grid.Grid2D
	phase     *grid.Grid2D
}

// NewStore creates a store reading from dataDir.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		cache:   make(map[domain.Name]*dataset),
	}
}

// Constituent returns the (amplitude, phase) sample for one constituent at a
// coordinate. A missing or unreadable atlas file is a valid "no data here"
// signal, not an error: the zero sample is returned and the caller decides
// whether the overall constituent set is still usable. Cells flagged as
// missing in the file likewise yield the zero sample.
func (s *Store) Constituent(name domain.Name, lat, lon float64) domain.Sample {
	zero := domain.Sample{Name: name}

	ds, err := s.load(name)
	if err != nil {
		log.Printf("fes: constituent %s unavailable: %v", name, err)
		return zero
	}

	lon = normalizeLon(ds.amplitude.X, lon)

	i := grid.NearestIndex(ds.amplitude.Y, lat)
	j := grid.NearestIndex(ds.amplitude.X, lon)

	amplitude := ds.amplitude.Values[i][j]
	phase := ds.phase.Values[i][j]

	// Missing cells and negative amplitudes are sanitized here, at the
	// lookup boundary, so NaN never leaks into a synthesis sum.
	if math.IsNaN(amplitude) || math.IsNaN(phase) || amplitude < 0 {
		return zero
	}

	// FES2022 stores amplitude in centimeters.
	return domain.Sample{
		Name:       name,
		AmplitudeM: amplitude / 100.0,
		PhaseDeg:   phase,
	}
}

// normalizeLon maps a query longitude into the dataset's own convention,
// detected from the longitude extent: min ≥ 0 with max > 180 means the file
// uses [0, 360), anything else means [-180, 180). The detection is per
// dataset; different atlas files could in principle differ.
func normalizeLon(lons []float64, lon float64) float64 {
	lonMin, lonMax := lons[0], lons[len(lons)-1]
	if lonMin >= 0 && lonMax > 180 {
		if lon < 0 {
			lon += 360
		}
		return lon
	}
	if lon > 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}
	return lon
}

// load returns the cached dataset for a constituent, reading the atlas file
// on first access. A lost race on first access loads twice and keeps the
// first insertion; loads are idempotent so the duplicate work is harmless.
func (s *Store) load(name domain.Name) (*dataset, error) {
	s.mu.RLock()
	if ds, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	path := filepath.Join(s.dataDir, fmt.Sprintf("%s_fes2022.nc", name))
	ds, err := readDataset(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[name]; ok {
		return existing, nil
	}
	s.cache[name] = ds
	return ds, nil
}

// readDataset loads one atlas file. Two on-disk conventions are supported:
// explicit (amplitude, phase) variables, or (Re, Im) complex pairs from
// which amplitude = hypot(re, im) and phase = atan2(im, re) in degrees.
func readDataset(path string) (*dataset, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = nc.Close() }()

	lats, err := readCoord(nc, []string{"lat", "latitude", "y"})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	lons, err := readCoord(nc, []string{"lon", "longitude", "x"})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ampValues, phaValues, err := readFields(nc, len(lats), len(lons))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ds := &dataset{
		amplitude: &grid.Grid2D{X: lons, Y: lats, Values: ampValues},
		phase:     &grid.Grid2D{X: lons, Y: lats, Values: phaValues},
	}
	if err := ds.amplitude.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid amplitude grid: %w", path, err)
	}
	if err := ds.phase.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid phase grid: %w", path, err)
	}
	return ds, nil
}

// readFields reads the amplitude/phase fields under either variable
// convention.
func readFields(nc netcdf.Dataset, nLat, nLon int) (amp, pha [][]float64, err error) {
	ampVar, ampOK := findVar(nc, []string{"amplitude", "amp", "Ha"})
	phaVar, phaOK := findVar(nc, []string{"phase", "pha", "Hg"})
	if ampOK && phaOK {
		amp, err = readField(ampVar, nLat, nLon)
		if err != nil {
			return nil, nil, fmt.Errorf("amplitude: %w", err)
		}
		pha, err = readField(phaVar, nLat, nLon)
		if err != nil {
			return nil, nil, fmt.Errorf("phase: %w", err)
		}
		return amp, pha, nil
	}

	reVar, reOK := findVar(nc, []string{"Re", "hRe", "real"})
	imVar, imOK := findVar(nc, []string{"Im", "hIm", "imag"})
	if !reOK || !imOK {
		return nil, nil, fmt.Errorf("no amplitude/phase or Re/Im variables found")
	}

	reVals, err := readField(reVar, nLat, nLon)
	if err != nil {
		return nil, nil, fmt.Errorf("real component: %w", err)
	}
	imVals, err := readField(imVar, nLat, nLon)
	if err != nil {
		return nil, nil, fmt.Errorf("imaginary component: %w", err)
	}

	amp = make([][]float64, nLat)
	pha = make([][]float64, nLat)
	for i := 0; i < nLat; i++ {
		amp[i] = make([]float64, nLon)
		pha[i] = make([]float64, nLon)
		for j := 0; j < nLon; j++ {
			re, im := reVals[i][j], imVals[i][j]
			amp[i][j] = math.Hypot(re, im)
			pha[i][j] = domain.Rad2Deg(math.Atan2(im, re))
		}
	}
	return amp, pha, nil
}

// readField reads a 2-D variable oriented [lat, lon], transposing
// [lon, lat] data and reshaping flattened 1-D data. Fill values become NaN.
func readField(v netcdf.Var, nLat, nLon int) ([][]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}

	var values [][]float64
	switch len(dims) {
	case 2:
		dim0Len, err := dims[0].Len()
		if err != nil {
			return nil, err
		}
		dim1Len, err := dims[1].Len()
		if err != nil {
			return nil, err
		}
		switch {
		case dim0Len == uint64(nLat) && dim1Len == uint64(nLon):
			values, err = read2DFloat64Var(v, nLat, nLon)
			if err != nil {
				return nil, err
			}
		case dim0Len == uint64(nLon) && dim1Len == uint64(nLat):
			transposed, err := read2DFloat64Var(v, nLon, nLat)
			if err != nil {
				return nil, err
			}
			values = transpose2D(transposed)
		default:
			return nil, fmt.Errorf("dimension mismatch: data is [%d, %d], expected [%d, %d] or [%d, %d]",
				dim0Len, dim1Len, nLat, nLon, nLon, nLat)
		}
	case 1:
		length, err := dims[0].Len()
		if err != nil {
			return nil, err
		}
		if length != uint64(nLat*nLon) {
			return nil, fmt.Errorf("flattened data has %d values, expected %d", length, nLat*nLon)
		}
		flat, err := readFlatFloat64Var(v, nLat*nLon)
		if err != nil {
			return nil, err
		}
		values = make([][]float64, nLat)
		for i := 0; i < nLat; i++ {
			values[i] = flat[i*nLon : (i+1)*nLon]
		}
	default:
		return nil, fmt.Errorf("expected 1D or 2D data, got %dD", len(dims))
	}

	if fv, ok := getFillValue(v); ok {
		for i := range values {
			for j := range values[i] {
				if values[i][j] == fv {
					values[i][j] = math.NaN()
				}
			}
		}
	}
	return values, nil
}

func findVar(nc netcdf.Dataset, candidates []string) (netcdf.Var, bool) {
	for _, name := range candidates {
		if v, err := nc.Var(name); err == nil {
			return v, true
		}
	}
	return netcdf.Var{}, false
}

// getFillValue returns the _FillValue or missing_value attribute if present.
func getFillValue(v netcdf.Var) (float64, bool) {
	for _, name := range []string{"_FillValue", "missing_value"} {
		a := v.Attr(name)
		if a == (netcdf.Attr{}) {
			continue
		}
		n, err := a.Len()
		if err != nil || n == 0 {
			continue
		}
		buf64 := make([]float64, 1)
		if err := a.ReadFloat64s(buf64); err == nil {
			return buf64[0], true
		}
		buf32 := make([]float32, 1)
		if err := a.ReadFloat32s(buf32); err == nil {
			return float64(buf32[0]), true
		}
		bufi := make([]int32, 1)
		if err := a.ReadInt32s(bufi); err == nil {
			return float64(bufi[0]), true
		}
	}
	return 0, false
}

// readCoord reads a 1-D coordinate array, trying each candidate name.
func readCoord(nc netcdf.Dataset, candidates []string) ([]float64, error) {
	for _, name := range candidates {
		v, err := nc.Var(name)
		if err != nil {
			continue
		}
		dims, err := v.Dims()
		if err != nil || len(dims) != 1 {
			continue
		}
		length, err := dims[0].Len()
		if err != nil {
			continue
		}
		data, err := readFlatFloat64Var(v, int(length))
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("coordinate variable not found (tried: %v)", candidates)
}

// readFlatFloat64Var reads a variable of total length as float64, widening
// narrower numeric types.
func readFlatFloat64Var(v netcdf.Var, total int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}
	switch t {
	case netcdf.DOUBLE:
		data := make([]float64, total)
		if err := v.ReadFloat64s(data); err != nil {
			return nil, err
		}
		return data, nil
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, total)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, total)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, err
		}
		out := make([]float64, total)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}
}

// read2DFloat64Var reads a 2-D variable row-major as [nRows][nCols].
func read2DFloat64Var(v netcdf.Var, nRows, nCols int) ([][]float64, error) {
	flat, err := readFlatFloat64Var(v, nRows*nCols)
	if err != nil {
		return nil, err
	}
	values := make([][]float64, nRows)
	for i := 0; i < nRows; i++ {
		values[i] = flat[i*nCols : (i+1)*nCols]
	}
	return values, nil
}

func transpose2D(data [][]float64) [][]float64 {
	if len(data) == 0 {
		return data
	}
	nRows := len(data)
	nCols := len(data[0])
	transposed := make([][]float64, nCols)
	for i := 0; i < nCols; i++ {
		transposed[i] = make([]float64, nRows)
		for j := 0; j < nRows; j++ {
			transposed[i][j] = data[j][i]
		}
	}
	return transposed
}
