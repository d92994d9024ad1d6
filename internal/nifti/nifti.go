package nifti

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// NIfTI-1 datatype codes.
const (
	typeUint8   = 2
	typeInt16   = 4
	typeInt32   = 8
	typeFloat32 = 16
	typeFloat64 = 64
	typeInt8    = 256
	typeUint16  = 512
	typeUint32  = 768
)

const (
	headerSize = 348
	// Voxel data in a single-file image starts after the header plus the
	// four-byte extension indicator.
	dataOffset = headerSize + 4
)

// Volume is a 3-D voxel grid decoded from a NIfTI-1 image. Data is stored
// with x varying fastest, matching the on-disk order.
type Volume struct {
	NX, NY, NZ int
	Data       []float64
}

// NewVolume allocates a zeroed volume with the given dimensions.
func NewVolume(nx, ny, nz int) *Volume {
	return &Volume{NX: nx, NY: ny, NZ: nz, Data: make([]float64, nx*ny*nz)}
}

// Len returns the number of voxels.
func (v *Volume) Len() int {
	return v.NX * v.NY * v.NZ
}

// At returns the voxel value at (x, y, z).
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[x+v.NX*(y+v.NY*z)]
}

// Set stores a voxel value at (x, y, z).
func (v *Volume) Set(x, y, z int, value float64) {
	v.Data[x+v.NX*(y+v.NY*z)] = value
}

// rawHeader mirrors the fixed 348-byte NIfTI-1 header layout.
type rawHeader struct {
	SizeofHdr     int32
	DataTypeName  [10]byte
	DBName        [18]byte
	Extents       int32
	SessionError  int16
	Regular       byte
	DimInfo       byte
	Dim           [8]int16
	IntentP1      float32
	IntentP2      float32
	IntentP3      float32
	IntentCode    int16
	Datatype      int16
	Bitpix        int16
	SliceStart    int16
	Pixdim        [8]float32
	VoxOffset     float32
	SclSlope      float32
	SclInter      float32
	SliceEnd      int16
	SliceCode     byte
	XyztUnits     byte
	CalMax        float32
	CalMin        float32
	SliceDuration float32
	Toffset       float32
	Glmax         int32
	Glmin         int32
	Descrip       [80]byte
	AuxFile       [24]byte
	QformCode     int16
	SformCode     int16
	QuaternB      float32
	QuaternC      float32
	QuaternD      float32
	QoffsetX      float32
	QoffsetY      float32
	QoffsetZ      float32
	SrowX         [4]float32
	SrowY         [4]float32
	SrowZ         [4]float32
	IntentName    [16]byte
	Magic         [4]byte
}

// Load reads a single-file NIfTI-1 image (.nii or .nii.gz).
func Load(path string) (*Volume, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open volume: %w", err)
	}
	defer file.Close()

	var reader io.Reader = bufio.NewReader(file)
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("open gzip volume %s: %w", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	vol, err := Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return vol, nil
}

// Decode reads a NIfTI-1 stream. Both byte orders are accepted; the order is
// detected from the sizeof_hdr field.
func Decode(r io.Reader) (*Volume, error) {
	raw := make([]byte, headerSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var hdr rawHeader
	order := binary.ByteOrder(binary.LittleEndian)
	if err := binary.Read(bytes.NewReader(raw), order, &hdr); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if hdr.SizeofHdr != headerSize {
		order = binary.BigEndian
		if err := binary.Read(bytes.NewReader(raw), order, &hdr); err != nil {
			return nil, fmt.Errorf("decode header: %w", err)
		}
		if hdr.SizeofHdr != headerSize {
			return nil, fmt.Errorf("not a NIfTI-1 header (sizeof_hdr %d)", int32(binary.LittleEndian.Uint32(raw[:4])))
		}
	}

	magic := string(hdr.Magic[:3])
	switch magic {
	case "n+1":
	case "ni1":
		return nil, errors.New("two-file NIfTI (.hdr/.img) images are not supported")
	default:
		return nil, fmt.Errorf("unrecognized magic %q", magic)
	}

	ndim := int(hdr.Dim[0])
	if ndim < 1 || ndim > 7 {
		return nil, fmt.Errorf("invalid dimension count %d", ndim)
	}
	dims := [3]int{1, 1, 1}
	for i := 0; i < 3 && i < ndim; i++ {
		d := int(hdr.Dim[i+1])
		if d < 1 {
			return nil, fmt.Errorf("invalid dim[%d] = %d", i+1, d)
		}
		dims[i] = d
	}
	for i := 4; i <= ndim; i++ {
		if hdr.Dim[i] > 1 {
			return nil, fmt.Errorf("volume has %d dimensions; expected a 3-D image", ndim)
		}
	}

	stride, convert, err := voxelDecoder(hdr.Datatype, order)
	if err != nil {
		return nil, err
	}

	offset := int64(hdr.VoxOffset)
	if offset < headerSize {
		offset = dataOffset
	}
	if skip := offset - headerSize; skip > 0 {
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return nil, fmt.Errorf("skip to voxel data: %w", err)
		}
	}

	count := dims[0] * dims[1] * dims[2]
	payload := make([]byte, count*stride)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read voxel data (%d voxels): %w", count, err)
	}

	vol := &Volume{NX: dims[0], NY: dims[1], NZ: dims[2], Data: make([]float64, count)}
	for i := 0; i < count; i++ {
		vol.Data[i] = convert(payload[i*stride:])
	}

	applyScaling(vol, float64(hdr.SclSlope), float64(hdr.SclInter))
	return vol, nil
}

func voxelDecoder(datatype int16, order binary.ByteOrder) (int, func([]byte) float64, error) {
	switch datatype {
	case typeUint8:
		return 1, func(b []byte) float64 { return float64(b[0]) }, nil
	case typeInt8:
		return 1, func(b []byte) float64 { return float64(int8(b[0])) }, nil
	case typeInt16:
		return 2, func(b []byte) float64 { return float64(int16(order.Uint16(b))) }, nil
	case typeUint16:
		return 2, func(b []byte) float64 { return float64(order.Uint16(b)) }, nil
	case typeInt32:
		return 4, func(b []byte) float64 { return float64(int32(order.Uint32(b))) }, nil
	case typeUint32:
		return 4, func(b []byte) float64 { return float64(order.Uint32(b)) }, nil
	case typeFloat32:
		return 4, func(b []byte) float64 { return float64(math.Float32frombits(order.Uint32(b))) }, nil
	case typeFloat64:
		return 8, func(b []byte) float64 { return math.Float64frombits(order.Uint64(b)) }, nil
	default:
		return 0, nil, fmt.Errorf("unsupported datatype code %d", datatype)
	}
}

// applyScaling applies the header slope/intercept the way nibabel's
// get_fdata does: a zero or non-finite slope means "unset".
func applyScaling(vol *Volume, slope, inter float64) {
	if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
		return
	}
	if slope == 1 && inter == 0 {
		return
	}
	for i := range vol.Data {
		vol.Data[i] = vol.Data[i]*slope + inter
	}
}

// Save writes the volume as a single-file float32 NIfTI-1 image with an
// identity spatial mapping. A .gz suffix enables gzip compression.
func Save(path string, vol *Volume) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create volume: %w", err)
	}
	defer file.Close()

	buffered := bufio.NewWriter(file)
	var writer io.Writer = buffered
	var gz *gzip.Writer
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz = gzip.NewWriter(buffered)
		writer = gz
	}

	if err := Encode(writer, vol); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("flush gzip %s: %w", path, err)
		}
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return file.Close()
}

// Encode writes the volume to a stream in little-endian float32 form.
func Encode(w io.Writer, vol *Volume) error {
	if vol == nil {
		return errors.New("nil volume")
	}
	if vol.NX < 1 || vol.NY < 1 || vol.NZ < 1 {
		return fmt.Errorf("invalid dimensions %dx%dx%d", vol.NX, vol.NY, vol.NZ)
	}
	if len(vol.Data) != vol.Len() {
		return fmt.Errorf("voxel count %d does not match dimensions %dx%dx%d", len(vol.Data), vol.NX, vol.NY, vol.NZ)
	}

	hdr := rawHeader{
		SizeofHdr: headerSize,
		Regular:   'r',
		Dim:       [8]int16{3, int16(vol.NX), int16(vol.NY), int16(vol.NZ), 1, 1, 1, 1},
		Datatype:  typeFloat32,
		Bitpix:    32,
		Pixdim:    [8]float32{1, 1, 1, 1, 0, 0, 0, 0},
		VoxOffset: dataOffset,
		SclSlope:  1,
		XyztUnits: 2, // millimetres
		SformCode: 1,
		SrowX:     [4]float32{1, 0, 0, 0},
		SrowY:     [4]float32{0, 1, 0, 0},
		SrowZ:     [4]float32{0, 0, 1, 0},
		Magic:     [4]byte{'n', '+', '1', 0},
	}

	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	// Extension indicator: no extensions follow.
	if _, err := w.Write([]byte{0, 0, 0, 0}); err != nil {
		return fmt.Errorf("write extension indicator: %w", err)
	}

	payload := make([]byte, len(vol.Data)*4)
	for i, value := range vol.Data {
		binary.LittleEndian.PutUint32(payload[i*4:], math.Float32bits(float32(value)))
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write voxel data: %w", err)
	}
	return nil
}
