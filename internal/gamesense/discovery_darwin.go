package gamesense

const DefaultCorePropsPath = `/Library/Application Support/SteelSeries Engine 3/coreProps.json`
