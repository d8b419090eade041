package i18n

// Message keys shown to the user.
const (
	GameNotFound      Key = "game-not-found"
	CreateLangDir     Key = "create-lang-dir"
	ResolveLatest     Key = "resolve-latest"
	LocateContent     Key = "locate-content"
	DownloadContent   Key = "download-content"
	IntegrityHint     Key = "integrity-hint"
	CleanupInstalled  Key = "cleanup-installed"
	ApplyContent      Key = "apply-content"
	InstallFont       Key = "install-font"
	WriteMarker       Key = "write-marker"
	InstallFailed     Key = "install-failed"
	UpdateFailedWarn  Key = "update-failed-warn"
	UpdatingTitle     Key = "updating-title"
	UpdatingTo        Key = "updating-to"
	LaunchGame        Key = "launch-game"
	LoadConfig        Key = "load-config"
	SelfUpdate        Key = "self-update"
	DirectToolLaunch  Key = "direct-tool-launch"
	StartupFailed     Key = "startup-failed"
	LauncherErrorName Key = "launcher-error-title"
)

// translation is one message in every supported language.
type translation struct {
	zh string
	en string
}

//nolint:gochecknoglobals // Static translation table.
var translations = map[Key]translation{
	GameNotFound:      {zh: "无法获取 Limbus Company 安装路径", en: "cannot find the Limbus Company install directory"},
	CreateLangDir:     {zh: "无法创建语言目录 %s", en: "cannot create the language directory %s"},
	ResolveLatest:     {zh: "无法获取最新版本", en: "cannot determine the latest version"},
	LocateContent:     {zh: "无法获取文件下载地址", en: "cannot locate the release files"},
	DownloadContent:   {zh: "无法下载 LLC 文件", en: "cannot download the localization files"},
	IntegrityHint:     {zh: "文件校验失败，可能是网络问题，请稍后再试", en: "the download failed verification, probably a network glitch, try again later"},
	CleanupInstalled:  {zh: "无法清理已安装的文件 %s", en: "cannot clean up the installed files in %s"},
	ApplyContent:      {zh: "无法解压 LLC 文件到 %s", en: "cannot extract the localization files into %s"},
	InstallFont:       {zh: "无法安装字体", en: "cannot install the font"},
	WriteMarker:       {zh: "无法写入版本文件 %s", en: "cannot write the version file %s"},
	InstallFailed:     {zh: "无法安装或更新 LLC", en: "cannot install or update the localization"},
	UpdateFailedWarn:  {zh: "LLC 更新失败，将使用现有文件启动游戏：%s", en: "the localization update failed, starting the game with the current files: %s"},
	UpdatingTitle:     {zh: "更新 LLC", en: "Updating LLC"},
	UpdatingTo:        {zh: "将会更新 LLC 到版本 %s", en: "the localization will be updated to version %s"},
	LaunchGame:        {zh: "无法启动 Limbus Company", en: "cannot start Limbus Company"},
	LoadConfig:        {zh: "无法加载配置文件，如问题持续请删除 %s 后重试", en: "cannot load the configuration, delete %s if the problem persists"},
	SelfUpdate:        {zh: "无法更新启动器可执行文件", en: "cannot update the launcher executable"},
	DirectToolLaunch:  {zh: "请勿直接运行缓存目录中的启动器", en: "do not run the launcher copy from the cache directory directly"},
	StartupFailed:     {zh: "启动器无法启动", en: "the launcher could not start"},
	LauncherErrorName: {zh: "LLC 启动器错误", en: "LLC launcher error"},
}
