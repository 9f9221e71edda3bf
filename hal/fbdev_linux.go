//go:build linux

package hal

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"fbsplash/internal/pixel"
)

// DefaultFramebuffer is the device opened when none is given.
const DefaultFramebuffer = "/dev/fb0"

const (
	fbioGetVScreenInfo = 0x4600
	fbioPutVScreenInfo = 0x4601
	fbioGetFScreenInfo = 0x4602
)

// fixScreenInfo mirrors struct fb_fix_screeninfo. The unsigned long fields
// are uintptr so the layout matches on 32 and 64 bit kernels.
type fixScreenInfo struct {
	ID                        [16]byte
	SmemStart                 uintptr
	SmemLen, Type, TypeAux    uint32
	Visual                    uint32
	XPanStep, YPanStep, YWrap uint16
	LineLength                uint32
	MmioStart                 uintptr
	MmioLen, Accel            uint32
	Capabilities              uint16
	Reserved                  [2]uint16
}

type bitField struct {
	Offset, Length, MsbRight uint32
}

// varScreenInfo mirrors struct fb_var_screeninfo.
type varScreenInfo struct {
	XRes, YRes                uint32
	XResVirtual, YResVirtual  uint32
	XOffset, YOffset          uint32
	BitsPerPixel, Grayscale   uint32
	Red, Green, Blue, Transp  bitField
	NonStd, Activate          uint32
	Height, Width             uint32
	AccelFlags, PixClock      uint32
	LeftMargin, RightMargin   uint32
	UpperMargin, LowerMargin  uint32
	HSyncLen, VSyncLen, Sync  uint32
	VMode, Rotate, Colorspace uint32
	Reserved                  [4]uint32
}

// Framebuffer is a Linux fbdev display mapped into memory.
type Framebuffer struct {
	mu     sync.Mutex
	file   *os.File
	mem    []byte
	width  int
	height int
	stride int
	bpp    int

	readOnly bool
}

// OpenFramebuffer opens the fbdev device at path read-write, switches it to
// 32 bits per pixel and maps its visible area.
func OpenFramebuffer(path string) (*Framebuffer, error) {
	return openFramebuffer(path, true)
}

// OpenFramebufferReadOnly maps the device for reading without changing its
// mode. Present on the result fails.
func OpenFramebufferReadOnly(path string) (*Framebuffer, error) {
	return openFramebuffer(path, false)
}

func openFramebuffer(path string, write bool) (*Framebuffer, error) {
	flag, prot := os.O_RDONLY, unix.PROT_READ
	if write {
		flag, prot = os.O_RDWR, unix.PROT_READ|unix.PROT_WRITE
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDevice, err)
	}

	var vinfo varScreenInfo
	if err := ioctl(f, fbioGetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: FBIOGET_VSCREENINFO: %v", ErrDevice, path, err)
	}
	if write {
		vinfo.Grayscale = 0
		vinfo.BitsPerPixel = 32
		if err := ioctl(f, fbioPutVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: FBIOPUT_VSCREENINFO: %v", ErrDevice, path, err)
		}
		if err := ioctl(f, fbioGetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: FBIOGET_VSCREENINFO: %v", ErrDevice, path, err)
		}
	}

	var finfo fixScreenInfo
	if err := ioctl(f, fbioGetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: FBIOGET_FSCREENINFO: %v", ErrDevice, path, err)
	}

	fb := &Framebuffer{
		file:   f,
		width:  int(vinfo.XRes),
		height: int(vinfo.YRes),
		stride: int(finfo.LineLength),
		bpp:    int(vinfo.BitsPerPixel) / 8,

		readOnly: !write,
	}
	if fb.bpp != pixel.BytesPerPixel {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %d bits per pixel", ErrDevice, path, vinfo.BitsPerPixel)
	}
	if _, err := pixel.Size(fb.width, fb.height, fb.stride); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrDevice, path, err)
	}

	fb.mem, err = unix.Mmap(int(f.Fd()), 0, fb.height*fb.stride, prot, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: mmap: %v", ErrDevice, path, err)
	}
	return fb, nil
}

func ioctl(f *os.File, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (fb *Framebuffer) Width() int         { return fb.width }
func (fb *Framebuffer) Height() int        { return fb.height }
func (fb *Framebuffer) StrideBytes() int   { return fb.stride }
func (fb *Framebuffer) BytesPerPixel() int { return fb.bpp }

func (fb *Framebuffer) Present(buf *pixel.Buffer) error {
	if err := checkGeometry(fb, buf); err != nil {
		return err
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.mem == nil {
		return fmt.Errorf("%w: framebuffer closed", ErrDevice)
	}
	if fb.readOnly {
		return fmt.Errorf("%w: framebuffer opened read-only", ErrDevice)
	}
	copyRows(fb.mem, fb.stride, buf)
	return nil
}

// Snapshot copies the visible display memory into a new buffer.
func (fb *Framebuffer) Snapshot() (*pixel.Buffer, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.mem == nil {
		return nil, fmt.Errorf("%w: framebuffer closed", ErrDevice)
	}
	return &pixel.Buffer{
		Pix:    append([]byte(nil), fb.mem...),
		Width:  fb.width,
		Height: fb.height,
		Stride: fb.stride,
	}, nil
}

// Close unmaps the display memory and closes the device.
func (fb *Framebuffer) Close() error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var err error
	if fb.mem != nil {
		err = unix.Munmap(fb.mem)
		fb.mem = nil
	}
	if fb.file != nil {
		if cerr := fb.file.Close(); err == nil {
			err = cerr
		}
		fb.file = nil
	}
	return err
}
