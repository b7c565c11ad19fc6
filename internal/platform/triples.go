package platform

// Triple describes one supported target platform and the attributes a
// predicate may test against.
type Triple struct {
	Name         string
	Arch         string
	OS           string
	Family       []string
	Env          string
	Vendor       string
	Endian       string
	PointerWidth string
}

// SupportedTriples are the tier 1 and tier 2 platforms known to rules_rust.
// The order is the order in which matching triples are reported.
var SupportedTriples = []Triple{
	// Tier 1
	{Name: "i686-apple-darwin", Arch: "x86", OS: "macos", Family: []string{"unix"}, Vendor: "apple", Endian: "little", PointerWidth: "32"},
	{Name: "i686-pc-windows-msvc", Arch: "x86", OS: "windows", Family: []string{"windows"}, Env: "msvc", Vendor: "pc", Endian: "little", PointerWidth: "32"},
	{Name: "i686-unknown-linux-gnu", Arch: "x86", OS: "linux", Family: []string{"unix"}, Env: "gnu", Vendor: "unknown", Endian: "little", PointerWidth: "32"},
	{Name: "x86_64-apple-darwin", Arch: "x86_64", OS: "macos", Family: []string{"unix"}, Vendor: "apple", Endian: "little", PointerWidth: "64"},
	{Name: "x86_64-pc-windows-msvc", Arch: "x86_64", OS: "windows", Family: []string{"windows"}, Env: "msvc", Vendor: "pc", Endian: "little", PointerWidth: "64"},
	{Name: "x86_64-unknown-linux-gnu", Arch: "x86_64", OS: "linux", Family: []string{"unix"}, Env: "gnu", Vendor: "unknown", Endian: "little", PointerWidth: "64"},
	// Tier 2
	{Name: "aarch64-apple-darwin", Arch: "aarch64", OS: "macos", Family: []string{"unix"}, Vendor: "apple", Endian: "little", PointerWidth: "64"},
	{Name: "aarch64-apple-ios", Arch: "aarch64", OS: "ios", Family: []string{"unix"}, Vendor: "apple", Endian: "little", PointerWidth: "64"},
	{Name: "aarch64-linux-android", Arch: "aarch64", OS: "android", Family: []string{"unix"}, Vendor: "unknown", Endian: "little", PointerWidth: "64"},
	{Name: "aarch64-unknown-linux-gnu", Arch: "aarch64", OS: "linux", Family: []string{"unix"}, Env: "gnu", Vendor: "unknown", Endian: "little", PointerWidth: "64"},
	{Name: "arm-unknown-linux-gnueabi", Arch: "arm", OS: "linux", Family: []string{"unix"}, Env: "gnu", Vendor: "unknown", Endian: "little", PointerWidth: "32"},
	{Name: "i686-linux-android", Arch: "x86", OS: "android", Family: []string{"unix"}, Vendor: "unknown", Endian: "little", PointerWidth: "32"},
	{Name: "i686-unknown-freebsd", Arch: "x86", OS: "freebsd", Family: []string{"unix"}, Vendor: "unknown", Endian: "little", PointerWidth: "32"},
	{Name: "powerpc-unknown-linux-gnu", Arch: "powerpc", OS: "linux", Family: []string{"unix"}, Env: "gnu", Vendor: "unknown", Endian: "big", PointerWidth: "32"},
	{Name: "s390x-unknown-linux-gnu", Arch: "s390x", OS: "linux", Family: []string{"unix"}, Env: "gnu", Vendor: "unknown", Endian: "big", PointerWidth: "64"},
	{Name: "wasm32-unknown-unknown", Arch: "wasm32", OS: "unknown", Family: []string{"wasm"}, Vendor: "unknown", Endian: "little", PointerWidth: "32"},
	{Name: "wasm32-wasi", Arch: "wasm32", OS: "wasi", Family: []string{"wasm"}, Vendor: "unknown", Endian: "little", PointerWidth: "32"},
	{Name: "x86_64-apple-ios", Arch: "x86_64", OS: "ios", Family: []string{"unix"}, Vendor: "apple", Endian: "little", PointerWidth: "64"},
	{Name: "x86_64-linux-android", Arch: "x86_64", OS: "android", Family: []string{"unix"}, Vendor: "unknown", Endian: "little", PointerWidth: "64"},
	{Name: "x86_64-unknown-freebsd", Arch: "x86_64", OS: "freebsd", Family: []string{"unix"}, Vendor: "unknown", Endian: "little", PointerWidth: "64"},
}

// attr returns the value of a cfg key for this triple. The second return is
// false for keys the matcher does not model.
func (t Triple) attr(key string) ([]string, bool) {
	switch key {
	case "target":
		return []string{t.Name}, true
	case "target_arch":
		return []string{t.Arch}, true
	case "target_os":
		return []string{t.OS}, true
	case "target_family":
		return t.Family, true
	case "target_env":
		return []string{t.Env}, true
	case "target_vendor":
		return []string{t.Vendor}, true
	case "target_endian":
		return []string{t.Endian}, true
	case "target_pointer_width":
		return []string{t.PointerWidth}, true
	default:
		return nil, false
	}
}
