//go:build !linux || !cgo

package hw

func openWS2811(cfg Config) (Session, error) {
	return nil, ErrHwNotSupported
}
