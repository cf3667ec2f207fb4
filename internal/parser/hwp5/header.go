package hwp5

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/parkgeonsan/sandoc/internal/parser"
)

// FileHeader는 HWP 5.x 파일 헤더 구조체
// 참조: HWP 5.0 명세서 2.1 파일 인식 정보
type FileHeader struct {
	Signature   [32]byte // 파일 시그니처 "HWP Document File"
	Version     Version  // 파일 버전
	Flags       uint32   // 속성 플래그
	LicenseInfo [216]byte // 예약 영역
}

// Version은 파일 버전 (MM.mm.BB.RR)
type Version struct {
	Major    uint8
	Minor    uint8
	Build    uint8
	Revision uint8
}

// String returns the version in "M.m.b.r" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// ParseFileHeader decodes the fixed 256-byte FileHeader stream. The
// signature must match exactly, otherwise the file is not an HWP 5.x
// document at all.
func ParseFileHeader(data []byte) (*FileHeader, error) {
	if len(data) < FileHeaderSize {
		return nil, &parser.FormatError{
			Kind:   parser.BadSignature,
			Path:   StreamFileHeader,
			Detail: fmt.Sprintf("헤더 크기 부족: %d바이트 (%d바이트 필요)", len(data), FileHeaderSize),
		}
	}

	header := &FileHeader{}
	copy(header.Signature[:], data[0:32])

	sig := bytes.TrimRight(header.Signature[:], "\x00")
	if string(sig) != Signature {
		return nil, &parser.FormatError{
			Kind:   parser.BadSignature,
			Path:   StreamFileHeader,
			Detail: fmt.Sprintf("시그니처 불일치: %q", string(sig)),
		}
	}

	// 버전 4바이트는 역순 저장: [Revision][Build][Minor][Major]
	header.Version = Version{
		Revision: data[32],
		Build:    data[33],
		Minor:    data[34],
		Major:    data[35],
	}

	header.Flags = binary.LittleEndian.Uint32(data[36:40])
	copy(header.LicenseInfo[:], data[40:256])

	return header, nil
}

// IsCompressed reports whether body streams are deflate-compressed.
func (h *FileHeader) IsCompressed() bool {
	return h.Flags&FlagCompressed != 0
}

// IsEncrypted reports whether the document is password-protected.
func (h *FileHeader) IsEncrypted() bool {
	return h.Flags&FlagEncrypted != 0
}

// IsDistributable reports whether this is a view-only distribution copy.
func (h *FileHeader) IsDistributable() bool {
	return h.Flags&FlagDistributable != 0
}

// HasDRM reports whether any DRM protection bit is set.
func (h *FileHeader) HasDRM() bool {
	return h.Flags&(FlagDRM|FlagCertDRM) != 0
}

// HasCertEncryption reports whether the document uses certificate
// encryption.
func (h *FileHeader) HasCertEncryption() bool {
	return h.Flags&FlagCertEncrypt != 0
}

// HasScript reports whether scripts are stored alongside the document.
func (h *FileHeader) HasScript() bool {
	return h.Flags&FlagScript != 0
}

// checkReadable rejects documents whose body streams cannot be decoded:
// password encryption, certificate encryption, DRM. 배포용 문서는 BodyText
// 유무에 따라 컨테이너 쪽에서 판단한다.
func (h *FileHeader) checkReadable(path string) error {
	switch {
	case h.IsEncrypted():
		return &parser.FormatError{
			Kind:   parser.Encrypted,
			Path:   path,
			Detail: "암호화된 문서는 열 수 없습니다",
		}
	case h.HasCertEncryption():
		return &parser.FormatError{
			Kind:   parser.Encrypted,
			Path:   path,
			Detail: "공인 인증서로 암호화된 문서는 열 수 없습니다",
		}
	case h.HasDRM():
		return &parser.FormatError{
			Kind:   parser.Unsupported,
			Path:   path,
			Detail: "DRM 보호 문서는 지원하지 않습니다",
		}
	}
	return nil
}
