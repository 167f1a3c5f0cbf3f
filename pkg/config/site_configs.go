package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CaptchaMessage is reported when an interstitial challenge is detected
const CaptchaMessage = "DVSA is asking for a CAPTCHA. Please complete the check manually and try again later."

// SiteConfig describes the booking site and how to recognise its pages
type SiteConfig struct {
	BaseURL         string           `json:"base_url" yaml:"base_url"`
	LoginPath       string           `json:"login_path" yaml:"login_path"`
	SelectorsFile   string           `json:"selectors_file" yaml:"selectors_file"`
	Selectors       *SelectorConfig  `json:"selectors" yaml:"selectors"`
	BlockSignatures []BlockSignature `json:"block_signatures" yaml:"block_signatures"`
}

// BlockSignature maps a substring of the page text to the message returned to the caller
type BlockSignature struct {
	Match   string `json:"match" yaml:"match"`
	Message string `json:"message" yaml:"message"`
}

// SelectorConfig 目标站点的 CSS 选择器集合。每个列表按优先级排序，第一个命中的生效。
// 站点改版时只需要更新配置或 selectors_file，而不需要改代码。
type SelectorConfig struct {
	Version string `json:"version" yaml:"version"`

	LicenceNumber        []string `json:"licence_number" yaml:"licence_number"`
	ApplicationReference []string `json:"application_reference" yaml:"application_reference"`
	TheoryPassNumber     []string `json:"theory_pass_number" yaml:"theory_pass_number"`
	Submit               []string `json:"submit" yaml:"submit"`

	ErrorBanner []string `json:"error_banner" yaml:"error_banner"`
	Captcha     []string `json:"captcha" yaml:"captcha"`

	ChangeCentre       []string `json:"change_centre" yaml:"change_centre"`
	ChangeCentreText   string   `json:"change_centre_text" yaml:"change_centre_text"`
	CentreSearchInput  []string `json:"centre_search_input" yaml:"centre_search_input"`
	CentreSearchSubmit []string `json:"centre_search_submit" yaml:"centre_search_submit"`
	ShowMore           []string `json:"show_more" yaml:"show_more"`

	SlotContainer []string `json:"slot_container" yaml:"slot_container"`
	SlotDate      []string `json:"slot_date" yaml:"slot_date"`
	SlotTime      []string `json:"slot_time" yaml:"slot_time"`
	SlotLocation  []string `json:"slot_location" yaml:"slot_location"`

	CentreContainer    []string `json:"centre_container" yaml:"centre_container"`
	CentreName         []string `json:"centre_name" yaml:"centre_name"`
	CentreAddress      []string `json:"centre_address" yaml:"centre_address"`
	CentreAvailability []string `json:"centre_availability" yaml:"centre_availability"`
}

// NewSiteConfig 创建站点配置，使用环境变量填充默认值
func NewSiteConfig() *SiteConfig {
	return &SiteConfig{
		BaseURL:         getEnv("DVSA_BASE_URL", "https://driverpracticaltest.dvsa.gov.uk"),
		LoginPath:       getEnv("DVSA_LOGIN_PATH", "/login"),
		SelectorsFile:   getEnv("DVSA_SELECTORS_FILE", ""),
		Selectors:       DefaultSelectors(),
		BlockSignatures: DefaultBlockSignatures(),
	}
}

// LoginURL joins base URL and login path
func (sc *SiteConfig) LoginURL() string {
	return strings.TrimRight(sc.BaseURL, "/") + "/" + strings.TrimLeft(sc.LoginPath, "/")
}

// DefaultSelectors returns the selector set observed on the current site, newest markup first
func DefaultSelectors() *SelectorConfig {
	return &SelectorConfig{
		Version: "2024-03",

		LicenceNumber:        []string{"#driving-licence-number", "#drivinglicence", "input[name='username']"},
		ApplicationReference: []string{"#application-reference-number", "#test-ref-number", "input[name='password']"},
		TheoryPassNumber:     []string{"#theory-test-pass-number", "#theory-pass-number"},
		Submit:               []string{"#booking-login", "button[type='submit']", "input[type='submit']"},

		ErrorBanner: []string{".error-message", ".validation-summary-errors", "#error-summary", ".govuk-error-summary"},
		Captcha:     []string{"iframe[src*='recaptcha']", "iframe[src*='hcaptcha']", ".g-recaptcha", "#captcha"},

		ChangeCentre:       []string{"#test-centre-change", "a[href*='test-centre']"},
		ChangeCentreText:   "Change",
		CentreSearchInput:  []string{"#test-centres-input", "#test-centre-search"},
		CentreSearchSubmit: []string{"#test-centres-submit", "button[type='submit']"},
		ShowMore:           []string{"#fetch-more-centres", ".fetch-more-centres"},

		SlotContainer: []string{".slot-list-item", ".SlotPicker-slot", "[data-slot]", "li.slot"},
		SlotDate:      []string{".date", ".slot-date", "[data-date]"},
		SlotTime:      []string{".time", ".slot-time", "[data-time]"},
		SlotLocation:  []string{".test-centre", ".centre-name", ".location"},

		CentreContainer:    []string{".test-centre-results > li", "#search-results .test-centre", ".centre-result"},
		CentreName:         []string{"h4", ".test-centre-name", ".name"},
		CentreAddress:      []string{".test-centre-address", "address", ".address"},
		CentreAvailability: []string{"h5", ".test-centre-availability", ".availability"},
	}
}

// DefaultBlockSignatures returns the known block pages served in front of the site
func DefaultBlockSignatures() []BlockSignature {
	return []BlockSignature{
		{Match: "Access Denied", Message: "Access denied by DVSA security. Please try again later."},
		{Match: "Error 15", Message: "Request blocked by DVSA security (Error 15). Please try again later."},
		{Match: "Incapsula incident", Message: "Request blocked by DVSA security. Please try again later."},
	}
}

// MergedOver returns a copy of sc where every empty list is taken from base
func (sc *SelectorConfig) MergedOver(base *SelectorConfig) *SelectorConfig {
	if base == nil {
		out := *sc
		return &out
	}
	return &SelectorConfig{
		Version: pickString(sc.Version, base.Version),

		LicenceNumber:        pick(sc.LicenceNumber, base.LicenceNumber),
		ApplicationReference: pick(sc.ApplicationReference, base.ApplicationReference),
		TheoryPassNumber:     pick(sc.TheoryPassNumber, base.TheoryPassNumber),
		Submit:               pick(sc.Submit, base.Submit),

		ErrorBanner: pick(sc.ErrorBanner, base.ErrorBanner),
		Captcha:     pick(sc.Captcha, base.Captcha),

		ChangeCentre:       pick(sc.ChangeCentre, base.ChangeCentre),
		ChangeCentreText:   pickString(sc.ChangeCentreText, base.ChangeCentreText),
		CentreSearchInput:  pick(sc.CentreSearchInput, base.CentreSearchInput),
		CentreSearchSubmit: pick(sc.CentreSearchSubmit, base.CentreSearchSubmit),
		ShowMore:           pick(sc.ShowMore, base.ShowMore),

		SlotContainer: pick(sc.SlotContainer, base.SlotContainer),
		SlotDate:      pick(sc.SlotDate, base.SlotDate),
		SlotTime:      pick(sc.SlotTime, base.SlotTime),
		SlotLocation:  pick(sc.SlotLocation, base.SlotLocation),

		CentreContainer:    pick(sc.CentreContainer, base.CentreContainer),
		CentreName:         pick(sc.CentreName, base.CentreName),
		CentreAddress:      pick(sc.CentreAddress, base.CentreAddress),
		CentreAvailability: pick(sc.CentreAvailability, base.CentreAvailability),
	}
}

// LoadSelectorFile 从独立的 YAML 文件读取选择器，未填写的列表沿用 base
func LoadSelectorFile(path string, base *SelectorConfig) (*SelectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
	}

	override := &SelectorConfig{}
	if err := yaml.Unmarshal(data, override); err != nil {
		return nil, fmt.Errorf("%w: selectors YAML parsing failed: %v", ErrInvalidFormat, err)
	}
	return override.MergedOver(base), nil
}

func pick(v, def []string) []string {
	if len(v) > 0 {
		return v
	}
	return def
}

func pickString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
