package gamesense

// DefaultCorePropsPath is where the SteelSeries engine publishes its address.
const DefaultCorePropsPath = `C:\ProgramData\SteelSeries\SteelSeries Engine 3\coreProps.json`
