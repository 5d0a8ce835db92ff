package pg

var ApplyPoolSettings = applyPoolSettings
